package loader

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type yamlCodec struct{}

func (yamlCodec) decode(source string, data []byte) (map[string]any, error) {
	var config map[string]any
	if err := yaml.Unmarshal(data, &config); err != nil {
		perr := &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
		// yaml.v3 reports positions only in the message text.
		var line int
		if _, scanErr := fmt.Sscanf(strings.TrimPrefix(err.Error(), "yaml: "), "line %d:", &line); scanErr == nil {
			perr.Line = line
		}
		return nil, perr
	}
	return config, nil
}

func (yamlCodec) encode(data map[string]any) ([]byte, error) {
	return yaml.Marshal(data)
}
