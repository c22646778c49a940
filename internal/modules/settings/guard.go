package settings

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Events sent in the HX-Trigger header to keep the browser's copy of the
// dirty flag in step with the server.
const (
	eventDirty = "settings:dirty"
	eventClean = "settings:clean"
)

// guardScript keeps a local dirty flag, fed by the server events, and asks
// before the page is unloaded while it is set. It also lets htmx swap the
// 409, 422 and 502 responses that carry user-facing messages.
const guardScript = `<script>
(function () {
  var dirty = %t;
  document.body.addEventListener(%q, function () { dirty = true; });
  document.body.addEventListener(%q, function () { dirty = false; });
  document.body.addEventListener("htmx:beforeSwap", function (e) {
    var s = e.detail.xhr.status;
    if (s === 409 || s === 422 || s === 502) { e.detail.shouldSwap = true; e.detail.isError = false; }
  });
  window.addEventListener("beforeunload", function (e) {
    if (!dirty) { return; }
    e.preventDefault();
    e.returnValue = "";
  });
})();
</script>`

// UnloadGuard renders the browser side of the unsaved-changes guard.
func UnloadGuard(dirty bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, guardScript, dirty, eventDirty, eventClean)
		return err
	})
}
