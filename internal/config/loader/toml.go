package loader

import (
	"errors"

	"github.com/pelletier/go-toml/v2"
)

type tomlCodec struct{}

func (tomlCodec) decode(source string, data []byte) (map[string]any, error) {
	var config map[string]any
	if err := toml.Unmarshal(data, &config); err != nil {
		perr := &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}
	return config, nil
}

func (tomlCodec) encode(data map[string]any) ([]byte, error) {
	return toml.Marshal(data)
}
