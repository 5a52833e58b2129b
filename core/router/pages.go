package router

import (
	"net/http"

	"hotspot-control/core/protocol"
)

// favicon is a transparent 1x1 PNG.
var favicon = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4,
	0x89, 0x00, 0x00, 0x00, 0x0A, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9C, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4E, 0x44, 0xAE,
	0x42, 0x60, 0x82,
}

func serveFavicon(*Context) *protocol.Response {
	return protocol.NewResponse(http.StatusOK, "image/x-icon", favicon).
		Set("Cache-Control", "public, max-age=86400")
}

const guidancePage = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>API key required - Hotspot Control</title>
<style>
body { font-family: Arial, sans-serif; margin: 0; padding: 20px; background: #f4f5fb; }
.container { max-width: 520px; margin: 40px auto; background: #fff; padding: 32px; border-radius: 12px; box-shadow: 0 4px 16px rgba(0,0,0,0.1); }
h1 { color: #333; font-size: 24px; }
p, li { color: #555; line-height: 1.6; }
code { background: #eef0f4; padding: 2px 6px; border-radius: 4px; word-break: break-all; }
</style>
</head>
<body>
<div class="container">
<h1>API key required</h1>
<p>This control panel is protected. Every request must start with the API key as the first path segment.</p>
<ol>
<li>Open the hotspot application on the host.</li>
<li>Copy the API key shown in its settings, or run <code>hotspot-control key generate</code> and configure it.</li>
<li>Open <code>http://&lt;host&gt;:&lt;port&gt;/&lt;api-key&gt;/</code> in this browser.</li>
</ol>
<p>API calls use the same prefix, for example <code>/&lt;api-key&gt;/api/status</code>.</p>
</div>
</body>
</html>
`

const panelPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Hotspot Control</title>
<style>
body { font-family: Arial, sans-serif; margin: 0; padding: 20px; background: #f4f5fb; }
.container { max-width: 640px; margin: 0 auto; }
.card { background: #fff; padding: 20px; border-radius: 12px; box-shadow: 0 4px 16px rgba(0,0,0,0.08); margin-bottom: 16px; }
.grid { display: grid; grid-template-columns: 1fr 1fr; gap: 12px; }
.label { color: #888; font-size: 13px; }
.value { color: #222; font-size: 22px; }
button { padding: 10px 18px; border: 0; border-radius: 6px; color: #fff; cursor: pointer; margin-right: 8px; }
.start { background: #2e9d5b; }
.stop { background: #c94040; }
#message { margin-top: 12px; color: #555; }
</style>
</head>
<body>
<div class="container">
<div class="card">
<h1>Hotspot Control</h1>
<div class="grid">
<div><div class="label">Battery</div><div class="value" id="battery">-</div></div>
<div><div class="label">Battery temperature</div><div class="value" id="batteryTemperature">-</div></div>
<div><div class="label">CPU</div><div class="value" id="cpu">-</div></div>
<div><div class="label">CPU temperature</div><div class="value" id="cpuTemperature">-</div></div>
<div><div class="label">Wi-Fi</div><div class="value" id="wifiStatus">-</div></div>
</div>
</div>
<div class="card">
<button class="start" onclick="wifi('start')">Start hotspot</button>
<button class="stop" onclick="wifi('stop')">Stop hotspot</button>
<div id="message"></div>
</div>
</div>
<script>
var base = window.location.pathname.replace(/\/+$/, '');
function show(id, v, unit) {
  document.getElementById(id).textContent = (v === -1 || v === undefined) ? 'n/a' : v + (unit || '');
}
function refresh() {
  fetch(base + '/api/status').then(function (r) { return r.json(); }).then(function (body) {
    var d = body.data || {};
    show('battery', d.battery, '%');
    show('batteryTemperature', d.batteryTemperature, ' °C');
    show('cpu', d.cpu, '%');
    show('cpuTemperature', d.cpuTemperature, ' °C');
    show('wifiStatus', d.wifiStatus);
  }).catch(function () {});
}
function wifi(action) {
  fetch(base + '/api/wifi/' + action, { method: 'POST' }).then(function (r) { return r.json(); }).then(function (body) {
    document.getElementById('message').textContent = body.success ? body.message : body.error;
    refresh();
  });
}
refresh();
setInterval(refresh, 5000);
</script>
</body>
</html>
`
