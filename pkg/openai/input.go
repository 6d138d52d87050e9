package openai

import (
	"encoding/json"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Input is either a single string or a list of strings. A single element
// is sent as a plain string.
type Input []string

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewInput returns input from one or more strings
func NewInput(text ...string) Input {
	return Input(text)
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (i Input) MarshalJSON() ([]byte, error) {
	if len(i) == 1 {
		return json.Marshal(i[0])
	}
	return json.Marshal([]string(i))
}

func (i *Input) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*i = Input{text}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*i = Input(list)
	return nil
}
