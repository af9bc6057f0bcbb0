package httpapi

import (
	"html/template"

	"github.com/hamed0406/wslwatch/internal/domain"
)

type widgetData struct {
	domain.Snapshot
	Refresh int64
}

var widgetTmpl = template.Must(template.New("widget").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: Arial, sans-serif; margin: 0; padding: 10px 20px; }
  #status { font-size: 12pt; margin: 10px 0; }
  #clock { font-size: 10pt; color: blue; margin: 10px 0; }
  .pending { color: black; }
  .ok { color: green; }
  .fail { color: red; }
  .error { color: orange; }
</style>
</head>
<body>
<div id="status" class="{{.Status.Level}}">{{.Status.Text}}</div>
<div id="clock">{{.Clock}}</div>
<script>
(function () {
  var status = document.getElementById("status");
  var clock = document.getElementById("clock");
  function refresh() {
    fetch("api/status", {cache: "no-store"})
      .then(function (r) { return r.json(); })
      .then(function (s) {
        status.textContent = s.status.text;
        status.className = s.status.level;
        clock.textContent = s.clock;
      })
      .catch(function () {});
  }
  setInterval(refresh, {{.Refresh}});
})();
</script>
</body>
</html>
`))
