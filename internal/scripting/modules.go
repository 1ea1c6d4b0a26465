package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// registerModules installs the engine global into L.
//
//   - engine.log(msg) logs msg at debug level.
//
// Postcondition: engine global is defined in L.
func registerModules(L *lua.LState, logger *zap.Logger) {
	engine := L.NewTable()
	L.SetField(engine, "log", L.NewFunction(func(L *lua.LState) int {
		logger.Debug("doctrine script", zap.String("msg", L.CheckString(1)))
		return 0
	}))
	L.SetGlobal("engine", engine)
}
