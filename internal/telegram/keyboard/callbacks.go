package keyboard

import (
	"fmt"
	"strings"
)

// Callback actions
const (
	ActionConfirm = "confirm"
	ActionCancel  = "cancel"
	ActionExport  = "export"
)

// Confirmable operations
const (
	OpClearHistory    = "clearhistory"
	OpDeleteDocuments = "deletedocs"
)

// CallbackData represents parsed callback data
type CallbackData struct {
	Action string // "confirm", "cancel", "export"
	Value  string // operation or export format
}

// ParseCallback parses "action:value" callback data
func ParseCallback(data string) (*CallbackData, error) {
	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 || parts[0] == "" {
		return nil, fmt.Errorf("invalid callback format: %s", data)
	}

	return &CallbackData{
		Action: parts[0],
		Value:  parts[1],
	}, nil
}

// EncodeCallback creates callback data string
func EncodeCallback(action, value string) string {
	return fmt.Sprintf("%s:%s", action, value)
}
