package keyboard

import (
	"fmt"
	"strconv"
	"strings"
)

// Callback actions
const (
	ActionAsk = "ask" // value is the index of an example question
)

// CallbackData represents parsed callback data
type CallbackData struct {
	Action string
	Value  string
}

// ParseCallback parses "action:value" callback data
func ParseCallback(data string) (*CallbackData, error) {
	action, value, ok := strings.Cut(data, ":")
	if !ok || action == "" {
		return nil, fmt.Errorf("invalid callback format: %s", data)
	}

	return &CallbackData{
		Action: action,
		Value:  value,
	}, nil
}

// EncodeCallback creates callback data string
func EncodeCallback(action, value string) string {
	return action + ":" + value
}

// Index returns Value as a non-negative integer.
func (c *CallbackData) Index() (int, error) {
	n, err := strconv.Atoi(c.Value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid callback index: %q", c.Value)
	}
	return n, nil
}
