package loader

import (
	"fmt"
	"math"
	"os"

	"github.com/Shopify/go-lua"
	"github.com/ralvey/morph-go/engine/material"
	"github.com/ralvey/morph-go/engine/variant"
)

const (
	payloadTypeName  = "payload"
	materialTypeName = "material"
	documentTypeName = "document"
)

type luaLoaderBackend struct{}

var _ loaderBackend = &luaLoaderBackend{}

func newLuaLoaderBackend() loaderBackend {
	return &luaLoaderBackend{}
}

func (b *luaLoaderBackend) Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return b.LoadBytes("", data)
}

// LoadBytes runs a Lua script in a fresh state with the payload, material,
// and document constructors registered. The script must return the value
// of a document{...} call.
func (b *luaLoaderBackend) LoadBytes(name string, data []byte) (*Document, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerDocumentTypes(state)

	if err := lua.LoadBuffer(state, string(data), name, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}

	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("lua script must return document{...}")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	doc, ok := ud.(*Document)
	if !ok || doc == nil {
		return nil, fmt.Errorf("lua script returned invalid document")
	}
	return doc, nil
}

func registerDocumentTypes(state *lua.State) {
	lua.NewMetaTable(state, payloadTypeName)
	state.Pop(1)
	lua.NewMetaTable(state, materialTypeName)
	state.Pop(1)
	lua.NewMetaTable(state, documentTypeName)
	state.Pop(1)

	for _, kind := range []variant.Kind{
		variant.KindLine, variant.KindCircle, variant.KindRect,
		variant.KindPolygon, variant.KindArc, variant.KindPointCloud,
	} {
		k := kind
		state.PushGoFunction(func(s *lua.State) int {
			return payloadConstructor(s, k)
		})
		state.SetGlobal(k.String())
	}

	state.PushGoFunction(pathConstructor)
	state.SetGlobal("path")

	state.PushGoFunction(func(s *lua.State) int {
		lua.Errorf(s, "group payloads cannot be built in documents, assemble groups on the stage")
		return 0
	})
	state.SetGlobal("group")

	state.PushGoFunction(materialConstructor)
	state.SetGlobal("material")

	state.PushGoFunction(documentConstructor)
	state.SetGlobal("document")
}

// payloadConstructor reads a table argument, re-marshals it, and decodes
// it through the variant codec.
func payloadConstructor(state *lua.State, kind variant.Kind) int {
	lua.CheckType(state, 1, lua.TypeTable)
	body := tableToMap(state, 1)

	payload, err := decodePayloadBody(kind.String(), body)
	if err != nil {
		lua.Errorf(state, "%s: %s", kind, err.Error())
		return 0
	}
	state.PushUserData(payload)
	lua.SetMetaTableNamed(state, payloadTypeName)
	return 1
}

// pathConstructor builds a path payload from SVG-style path data.
func pathConstructor(state *lua.State) int {
	d := lua.CheckString(state, 1)
	payload, err := ParsePathData(d)
	if err != nil {
		lua.Errorf(state, "%s", err.Error())
		return 0
	}
	state.PushUserData(payload)
	lua.SetMetaTableNamed(state, payloadTypeName)
	return 1
}

func materialConstructor(state *lua.State) int {
	lua.CheckType(state, 1, lua.TypeTable)
	body := tableToMap(state, 1)

	mat, err := decodeMaterialBody(body)
	if err != nil {
		lua.Errorf(state, "%s", err.Error())
		return 0
	}
	state.PushUserData(mat)
	lua.SetMetaTableNamed(state, materialTypeName)
	return 1
}

// documentConstructor assembles a Document from {name = ..., objects =
// {...}} where each object entry carries a payload userdata built by one
// of the payload constructors.
func documentConstructor(state *lua.State) int {
	lua.CheckType(state, 1, lua.TypeTable)

	doc := &Document{}
	state.Field(1, "name")
	if s, ok := state.ToString(-1); ok {
		doc.Name = s
	}
	state.Pop(1)

	state.Field(1, "objects")
	if state.TypeOf(-1) == lua.TypeTable {
		objects := state.AbsIndex(-1)
		for i := 1; ; i++ {
			state.RawGetInt(objects, i)
			if state.IsNil(-1) {
				state.Pop(1)
				break
			}
			if state.TypeOf(-1) != lua.TypeTable {
				lua.Errorf(state, "document: object %d is not a table", i)
				return 0
			}
			spec, err := readObjectSpec(state, state.AbsIndex(-1))
			if err != nil {
				lua.Errorf(state, "document: object %d: %s", i, err.Error())
				return 0
			}
			doc.Objects = append(doc.Objects, spec)
			state.Pop(1)
		}
	}
	state.Pop(1)

	state.PushUserData(doc)
	lua.SetMetaTableNamed(state, documentTypeName)
	return 1
}

func readObjectSpec(state *lua.State, index int) (ObjectSpec, error) {
	spec := ObjectSpec{Enabled: true}

	state.Field(index, "name")
	if s, ok := state.ToString(-1); ok {
		spec.Name = s
	}
	state.Pop(1)

	state.Field(index, "payload")
	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return spec, fmt.Errorf("missing payload")
	}
	payload, ok := state.ToUserData(-1).(variant.Payload)
	state.Pop(1)
	if !ok || payload == nil {
		return spec, fmt.Errorf("payload is not a payload value")
	}
	spec.Payload = payload
	spec.Kind = payload.Kind().String()

	state.Field(index, "material")
	if state.TypeOf(-1) == lua.TypeUserData {
		if mat, ok := state.ToUserData(-1).(material.Material); ok {
			spec.Material = mat
		}
	}
	state.Pop(1)

	state.Field(index, "enabled")
	if state.TypeOf(-1) == lua.TypeBoolean {
		spec.Enabled = state.ToBoolean(-1)
	}
	state.Pop(1)

	state.Field(index, "ephemeral")
	if state.TypeOf(-1) == lua.TypeBoolean {
		spec.Ephemeral = state.ToBoolean(-1)
	}
	state.Pop(1)

	return spec, nil
}

func tableToMap(state *lua.State, index int) map[string]interface{} {
	output := map[string]interface{}{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) interface{} {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

// tableToGo distinguishes dense 1-based arrays from maps so payload bodies
// re-marshal the way the YAML backend parses them.
func tableToGo(state *lua.State, index int) interface{} {
	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		result := make([]interface{}, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}
	return tableToMap(state, index)
}

func normalizeNumber(value float64) interface{} {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
