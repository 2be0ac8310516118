package pipeline

// Origin identifies who produced a conversation turn.
type Origin string

const (
	OriginUser   Origin = "user"
	OriginSystem Origin = "system"
)

// Turn is one entry of the conversation log.
type Turn struct {
	Origin  Origin `json:"origin" yaml:"origin"`
	Content string `json:"content" yaml:"content"`
}

// UserTurn creates a turn attributed to the user.
func UserTurn(content string) Turn {
	return Turn{Origin: OriginUser, Content: content}
}

// SystemTurn creates a turn attributed to the system.
func SystemTurn(content string) Turn {
	return Turn{Origin: OriginSystem, Content: content}
}

// Transcript is an append-only conversation log. The zero value is empty and
// ready to use. A Transcript is never modified in place: Append returns a new
// one and leaves the receiver untouched.
type Transcript struct {
	turns []Turn
}

// NewTranscript creates a transcript holding turns.
func NewTranscript(turns ...Turn) Transcript {
	return Transcript{}.Append(turns...)
}

// Append returns a transcript with turns added at the end.
func (t Transcript) Append(turns ...Turn) Transcript {
	next := make([]Turn, 0, len(t.turns)+len(turns))
	next = append(next, t.turns...)
	next = append(next, turns...)
	return Transcript{turns: next}
}

// Turns returns a copy of the turns in order.
func (t Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Len returns the number of turns.
func (t Transcript) Len() int {
	return len(t.turns)
}

// Last returns the final turn, if any.
func (t Transcript) Last() (Turn, bool) {
	if len(t.turns) == 0 {
		return Turn{}, false
	}
	return t.turns[len(t.turns)-1], true
}
