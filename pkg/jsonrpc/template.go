package jsonrpc

import (
	"github.com/papercomputeco/strobe/pkg/jsonvalue"
	"github.com/papercomputeco/strobe/pkg/utils"
)

// Template is a named canonical request skeleton. Build produces the
// envelope with the given request id; member order matches the JSON-RPC
// convention (jsonrpc, id, method, params).
type Template struct {
	Name        string
	Description string
	Build       func(id int64) jsonvalue.Value
}

// envelope assembles a JSON-RPC 2.0 request. A nil params set omits the
// member entirely, as notifications and parameterless calls do.
func envelope(id int64, method string, params []jsonvalue.Member) jsonvalue.Value {
	members := []jsonvalue.Member{
		jsonvalue.M("jsonrpc", jsonvalue.String("2.0")),
		jsonvalue.M("id", jsonvalue.Int(id)),
		jsonvalue.M("method", jsonvalue.String(method)),
	}
	if params != nil {
		members = append(members, jsonvalue.M("params", jsonvalue.Object(params...)))
	}

	return jsonvalue.Object(members...)
}

// templates holds every known skeleton, in the order they are listed to
// the user.
var templates = []Template{
	{
		Name:        "initialize",
		Description: "MCP session handshake with client info and capabilities",
		Build: func(id int64) jsonvalue.Value {
			return envelope(id, "initialize", []jsonvalue.Member{
				jsonvalue.M("protocolVersion", jsonvalue.String(ProtocolVersion)),
				jsonvalue.M("capabilities", jsonvalue.Object()),
				jsonvalue.M("clientInfo", jsonvalue.Object(
					jsonvalue.M("name", jsonvalue.String("strobe")),
					jsonvalue.M("version", jsonvalue.String(utils.Version)),
				)),
			})
		},
	},
	{
		Name:        "ping",
		Description: "liveness check, empty result expected",
		Build: func(id int64) jsonvalue.Value {
			return envelope(id, "ping", nil)
		},
	},
	{
		Name:        "tools/list",
		Description: "enumerate the tools the server exposes",
		Build: func(id int64) jsonvalue.Value {
			return envelope(id, "tools/list", []jsonvalue.Member{})
		},
	},
	{
		Name:        "tools/call",
		Description: "invoke a named tool with arguments",
		Build: func(id int64) jsonvalue.Value {
			return envelope(id, "tools/call", []jsonvalue.Member{
				jsonvalue.M("name", jsonvalue.String("echo")),
				jsonvalue.M("arguments", jsonvalue.Object(
					jsonvalue.M("message", jsonvalue.String("hello")),
				)),
			})
		},
	},
	{
		Name:        "resources/list",
		Description: "enumerate readable resources",
		Build: func(id int64) jsonvalue.Value {
			return envelope(id, "resources/list", []jsonvalue.Member{})
		},
	},
	{
		Name:        "resources/read",
		Description: "read one resource by URI",
		Build: func(id int64) jsonvalue.Value {
			return envelope(id, "resources/read", []jsonvalue.Member{
				jsonvalue.M("uri", jsonvalue.String("file:///example.txt")),
			})
		},
	},
	{
		Name:        "prompts/list",
		Description: "enumerate prompt templates",
		Build: func(id int64) jsonvalue.Value {
			return envelope(id, "prompts/list", []jsonvalue.Member{})
		},
	},
	{
		Name:        "prompts/get",
		Description: "fetch one prompt with arguments",
		Build: func(id int64) jsonvalue.Value {
			return envelope(id, "prompts/get", []jsonvalue.Member{
				jsonvalue.M("name", jsonvalue.String("example")),
				jsonvalue.M("arguments", jsonvalue.Object()),
			})
		},
	},
}

// Lookup returns the template with the given name.
func Lookup(name string) (Template, bool) {
	for _, t := range templates {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}

// Names returns every template name in listing order.
func Names() []string {
	names := make([]string, 0, len(templates))
	for _, t := range templates {
		names = append(names, t.Name)
	}
	return names
}

// All returns every template in listing order.
func All() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}
