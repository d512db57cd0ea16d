package server

import "net/http"

// handleIndex serves the embedded field viewer page
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Wave Optics Field Viewer</title>
<style>
  body { font-family: sans-serif; background: #111; color: #ddd; margin: 20px; }
  #controls { margin-bottom: 12px; }
  #controls label { margin-right: 10px; }
  #field { border: 1px solid #444; image-rendering: pixelated; }
  #status { margin-top: 8px; color: #8a8; }
  select, input, button { background: #222; color: #ddd; border: 1px solid #555; padding: 4px; }
</style>
</head>
<body>
<h2>Wave Optics Field Viewer</h2>
<div id="controls">
  <label>Scene <select id="scene"></select></label>
  <label>Width <input id="width" type="number" value="800" min="100" max="2000" size="5"></label>
  <label>Height <input id="height" type="number" value="600" min="100" max="2000" size="5"></label>
  <label>Samples <input id="samples" type="number" value="16" min="1" max="1024" size="4"></label>
  <label>Passes <input id="passes" type="number" value="4" min="1" max="100" size="3"></label>
  <button id="render">Render</button>
</div>
<img id="field" alt="interference field">
<div id="status">Idle</div>
<script>
const status = document.getElementById('status');
const img = document.getElementById('field');
let source = null;

fetch('/api/scenes').then(r => r.json()).then(data => {
  const sel = document.getElementById('scene');
  for (const name of data.scenes) {
    const opt = document.createElement('option');
    opt.value = opt.textContent = name;
    if (name === 'double-slit') opt.selected = true;
    sel.appendChild(opt);
  }
});

document.getElementById('render').addEventListener('click', () => {
  if (source) source.close();
  const params = new URLSearchParams({
    scene: document.getElementById('scene').value,
    width: document.getElementById('width').value,
    height: document.getElementById('height').value,
    maxSamples: document.getElementById('samples').value,
    maxPasses: document.getElementById('passes').value,
  });
  status.textContent = 'Rendering...';
  source = new EventSource('/api/render-progressive?' + params);
  source.addEventListener('pass', e => {
    const update = JSON.parse(e.data);
    img.src = 'data:image/png;base64,' + update.imageData;
    status.textContent = 'Pass ' + update.passNumber + '/' + update.totalPasses +
      ' (' + update.stats.averageSamples.toFixed(1) + ' samples/px, ' +
      update.elapsedMs + 'ms)';
  });
  source.addEventListener('complete', () => {
    status.textContent += ' - done';
    source.close();
  });
  source.addEventListener('error', e => {
    if (e.data) status.textContent = 'Error: ' + e.data;
    source.close();
  });
});
</script>
</body>
</html>
`
