package domain

// InteractionKind distingue slash commands de botones.
type InteractionKind int

const (
	KindCommand InteractionKind = iota
	KindButton
)

func (k InteractionKind) String() string {
	if k == KindButton {
		return "button"
	}
	return "command"
}

// Interaction es lo mínimo que el core necesita de un evento de Discord.
type Interaction struct {
	Kind      InteractionKind
	ID        string // nombre del comando o custom_id del botón
	InvokerID string
	GuildID   string
	Options   map[string]string
}

func (i Interaction) Opt(name string) (string, bool) {
	v, ok := i.Options[name]
	return v, ok
}
