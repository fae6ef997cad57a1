package luaeng

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// evalChunkName names evaluator input so its frames are distinguishable from
// file-backed chunks.
const evalChunkName = "(debugger)"

// Evaluate runs one line of Lua against the live state and returns the
// textual results, tab-separated. Expression results are preferred: the text
// is first compiled as "return <text>", falling back to statement form.
//
// Errors come back exactly as gopher-lua reports them; the console shows
// their default text.
func (e *Engine) Evaluate(text string) (string, error) {
	L := e.L
	base := L.GetTop()

	fn, err := e.compile("return " + text)
	if err != nil {
		fn, err = e.compile(text)
		if err != nil {
			return "", err
		}
	}

	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		L.SetTop(base)
		return "", err
	}

	top := L.GetTop()
	var parts []string
	allNil := true
	for i := base + 1; i <= top; i++ {
		v := L.Get(i)
		if v != lua.LNil {
			allNil = false
		}
		parts = append(parts, v.String())
	}
	L.SetTop(base)

	if allNil {
		return "", nil
	}
	return strings.Join(parts, "\t"), nil
}

// compile loads src as a named chunk without executing it.
func (e *Engine) compile(src string) (*lua.LFunction, error) {
	return e.L.Load(strings.NewReader(src), evalChunkName)
}
