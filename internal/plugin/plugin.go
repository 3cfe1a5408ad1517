// Package plugin implements the host's raw plugin interface: one JSON
// envelope on stdin, one JSON response on stdout.
package plugin

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cast"
)

// TargetType identifies which catalog item kind an invocation operates on.
type TargetType string

const (
	TargetScene TargetType = "Scene"
	TargetImage TargetType = "Image"
)

// Input is the envelope the host writes to stdin for raw plugin tasks and
// hooks. Key casing varies between host versions, so both spellings of the
// server connection are accepted.
type Input struct {
	Input struct {
		Args        map[string]interface{} `json:"args"`
		HookContext map[string]interface{} `json:"hookContext"`
	} `json:"input"`
	ServerConnection    *ServerConnection `json:"server_connection"`
	ServerConnectionAlt *ServerConnection `json:"serverConnection"`
}

// ServerConnection describes how to reach the host's GraphQL API.
type ServerConnection struct {
	Scheme        string         `json:"Scheme"`
	Host          string         `json:"Host"`
	Port          int            `json:"Port"`
	SessionCookie *SessionCookie `json:"SessionCookie"`
}

type SessionCookie struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

// Connection returns whichever server connection block was present.
func (in *Input) Connection() *ServerConnection {
	if in.ServerConnection != nil {
		return in.ServerConnection
	}
	return in.ServerConnectionAlt
}

// ReadInput decodes the raw plugin envelope.
func ReadInput(r io.Reader) (*Input, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read plugin input: %w", err)
	}
	in := &Input{}
	if err := json.Unmarshal(raw, in); err != nil {
		return nil, fmt.Errorf("parse plugin input: %w", err)
	}
	return in, nil
}

// Output is the raw plugin response shape.
type Output struct {
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Respond writes the plugin response. Errors are reported inside the payload,
// never via the exit code.
func Respond(w io.Writer, message string, isErr bool) error {
	out := Output{Output: message}
	if isErr {
		out.Error = message
	}
	return json.NewEncoder(w).Encode(out)
}

// hookIDKeys maps the id key variants hosts have used in hook contexts.
var hookIDKeys = []struct {
	key    string
	target TargetType
}{
	{"sceneId", TargetScene},
	{"scene_id", TargetScene},
	{"sceneID", TargetScene},
	{"imageId", TargetImage},
	{"image_id", TargetImage},
	{"imageID", TargetImage},
}

// DetectTarget works out which Scene or Image the invocation refers to.
// Hook context wins; explicit args are the task-mode fallback. IDs arrive as
// strings or numbers depending on host version.
func DetectTarget(hookCtx, args map[string]interface{}) (TargetType, string, error) {
	if hookCtx != nil {
		ctxType := cast.ToString(hookCtx["type"])
		if ctxType == "" {
			ctxType = cast.ToString(hookCtx["__typename"])
		}
		id := cast.ToString(hookCtx["id"])
		if (ctxType == string(TargetScene) || ctxType == string(TargetImage)) && id != "" {
			return TargetType(ctxType), id, nil
		}
		for _, k := range hookIDKeys {
			if v, ok := hookCtx[k.key]; ok {
				if id := cast.ToString(v); id != "" {
					return k.target, id, nil
				}
			}
		}
	}

	targetType := cast.ToString(args["target_type"])
	if targetType == "" {
		targetType = cast.ToString(args["type"])
	}
	targetID := cast.ToString(args["target_id"])
	if targetID == "" {
		targetID = cast.ToString(args["id"])
	}
	if (targetType == string(TargetScene) || targetType == string(TargetImage)) && targetID != "" {
		return TargetType(targetType), targetID, nil
	}

	return "", "", fmt.Errorf("unable to determine target Scene/Image id from hookContext or args")
}
