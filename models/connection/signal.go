package connection

const (
	CodeSessionID uint8 = iota
	CodeReceivedInvalidSessionID
	CodeCreateGame
	CodeReady
	CodeStartGame
	CodeAttack

	// Sent right after CodeAttack with the bot's reply
	CodeBotAttack
	CodeEndGame
	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent

	// Rendered boards of an ongoing game
	CodeBoards
	CodeSessionReconnected
)

type Signal struct {
	Code *uint8 `json:"code"`
}
