package dialogue

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/samdwyer/zompanion/internal/gamedata"
	"github.com/samdwyer/zompanion/internal/logger"
)

// Kind is the saveable kind of a dialogue trigger.
const Kind = "dialogue_trigger"

// Trigger plays a conversation when the player talks to it. A Once trigger
// disables itself after firing and stays disabled across scene reloads.
type Trigger struct {
	ID           string
	Conversation gamedata.Conversation
	Condition    string
	Action       string
	Once         bool

	// Enabled gates interaction. Active hides the trigger entirely.
	Enabled bool
	Active  bool

	log logrus.FieldLogger
}

// NewTrigger creates an enabled, active trigger from its authored layout.
func NewTrigger(def gamedata.TriggerDef, conv gamedata.Conversation, log logrus.FieldLogger) *Trigger {
	return &Trigger{
		ID:           def.ID,
		Conversation: conv,
		Condition:    def.Condition,
		Action:       def.Action,
		Once:         def.Once,
		Enabled:      true,
		Active:       true,
		log:          logger.OrDiscard(log),
	}
}

// Available reports whether the trigger can be talked to at all.
func (t *Trigger) Available() bool {
	return t.Enabled && t.Active
}

// Interact plays the conversation if the trigger is available and its
// condition holds, then runs its action. It returns the lines played, or
// nil when nothing fired. A script error stops the trigger from firing.
func (t *Trigger) Interact(b *Bridge) ([]string, error) {
	if !t.Available() {
		return nil, nil
	}
	ok, err := b.Eval(t.Condition)
	if err != nil {
		return nil, fmt.Errorf("trigger %s condition: %w", t.ID, err)
	}
	if !ok {
		return nil, nil
	}

	if err := b.Run(t.Action); err != nil {
		return nil, fmt.Errorf("trigger %s action: %w", t.ID, err)
	}
	if t.Once {
		t.Enabled = false
	}
	t.log.WithFields(logrus.Fields{
		"entity_id":    t.ID,
		"conversation": t.Conversation.ID,
	}).Debug("dialogue triggered")
	return t.Conversation.Lines, nil
}

type triggerState struct {
	TriggerEnabled   []bool `json:"triggerEnabled"`
	GameObjectActive bool   `json:"gameObjectActive"`
}

// Kind implements scenestate.Saveable.
func (t *Trigger) Kind() string {
	return Kind
}

// CaptureState records whether the trigger is enabled and active.
func (t *Trigger) CaptureState() (string, error) {
	b, err := json.Marshal(triggerState{
		TriggerEnabled:   []bool{t.Enabled},
		GameObjectActive: t.Active,
	})
	if err != nil {
		return "", fmt.Errorf("marshal trigger state: %w", err)
	}
	return string(b), nil
}

// RestoreState reinstates the enabled and active flags. A state with no
// enabled entries leaves Enabled unchanged.
func (t *Trigger) RestoreState(state string) error {
	var st triggerState
	if err := json.Unmarshal([]byte(state), &st); err != nil {
		return fmt.Errorf("unmarshal trigger state: %w", err)
	}
	if len(st.TriggerEnabled) > 0 {
		t.Enabled = st.TriggerEnabled[0]
	}
	t.Active = st.GameObjectActive
	return nil
}
