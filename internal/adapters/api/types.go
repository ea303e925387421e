package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LanguageBytes is one entry of the /languages response.
type LanguageBytes struct {
	Name  string
	Bytes int64
}

// decodeLanguages reads the {"Go": 1234, ...} object token by token so the
// API's ordering survives; a map would lose it.
func decodeLanguages(data []byte) ([]LanguageBytes, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var languages []LanguageBytes
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected language name, got %v", keyTok)
		}

		var n int64
		if err := dec.Decode(&n); err != nil {
			return nil, fmt.Errorf("language %q: %w", name, err)
		}
		languages = append(languages, LanguageBytes{Name: name, Bytes: n})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return languages, nil
}
