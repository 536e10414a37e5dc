package codec

import (
	"encoding/json"

	gojson "github.com/goccy/go-json"
)

// jsonCodec adapts a pair of JSON functions. Both built-in codecs produce
// interchangeable output.
type jsonCodec struct {
	name      string
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

func (c jsonCodec) Name() string                       { return c.name }
func (c jsonCodec) Marshal(v any) ([]byte, error)      { return c.marshal(v) }
func (c jsonCodec) Unmarshal(data []byte, v any) error { return c.unmarshal(data, v) }

var (
	// JSON uses encoding/json. It suits metadata types whose MarshalJSON
	// methods rely on encoding/json behavior.
	JSON Codec = jsonCodec{name: "json", marshal: json.Marshal, unmarshal: json.Unmarshal}

	// GoJSON uses github.com/goccy/go-json.
	GoJSON Codec = jsonCodec{name: "go-json", marshal: gojson.Marshal, unmarshal: gojson.Unmarshal}

	// Default is the codec used when none is configured.
	Default = GoJSON
)

func init() {
	Register(JSON)
	Register(GoJSON)
}
