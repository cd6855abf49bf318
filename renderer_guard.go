package particles

import (
	"fmt"
	"reflect"
)

// RendererTag records which backend the App renders with. Only one may be installed.
type RendererTag struct {
	Backend Backend
}

// ensureSingleRenderer panics if a different backend was already installed.
func ensureSingleRenderer(app *App, backend Backend) {
	if app == nil {
		panic("ensureSingleRenderer: app is nil")
	}
	t := reflect.TypeFor[RendererTag]()
	if res, ok := app.resources[t]; ok {
		tag := res.(*RendererTag)
		if tag.Backend != backend {
			app.Logger().Errorf("multiple renderers installed: %s and %s", tag.Backend, backend)
			panic(fmt.Sprintf("Multiple renderers installed: %s and %s", tag.Backend, backend))
		}
		return
	}
	app.addResources(&RendererTag{Backend: backend})
}
