package weave

import "html/template"

// defaultTemplateName selects the built-in page template.
const defaultTemplateName = "default"

// pageData holds the data passed to the HTML template for each page.
type pageData struct {
	Title        string
	ProjectTitle string
	Content      template.HTML
	ContentsHTML template.HTML
	SidebarClass string
	LinkTabIndex int
	SidebarWidth int
	CollapsePx   int
	ContentsKey  string
	Vars         map[string]string
}

// defaultTemplate is the built-in page template, used when the specials
// stream never registers one of its own.
const defaultTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} — {{.ProjectTitle}}</title>
  <link rel="stylesheet" href="ttweave.css">
</head>
<body data-contents-key="{{.ContentsKey}}" data-collapse-px="{{.CollapsePx}}" data-link-tabindex="{{.LinkTabIndex}}">
  <nav class="ttw-sidebar {{.SidebarClass}}" id="ttw-sidebar" style="width: {{.SidebarWidth}}px">
    <div class="ttw-sidebar-links">
      <ul>
{{.ContentsHTML}}      </ul>
    </div>
    <div class="ttw-resize-handle" id="ttw-resize-handle"></div>
  </nav>
  <main class="ttw-content">
    <div class="ttw-top-bar">
      <button class="ttw-button" id="ttw-sidebar-toggle" aria-label="Toggle sidebar">&#9776;</button>
      <button class="ttw-button" id="ttw-contents-toggle">Contents</button>
      <h1 class="ttw-project-title">{{.ProjectTitle}}</h1>
    </div>
    <article class="ttw-page">
      {{.Content}}
    </article>
  </main>
  <div class="ttw-contents-modal" id="ttw-contents-modal">
    <div class="ttw-contents-box">
      <h2>Contents</h2>
      <ul id="ttw-contents-list"><li class="ttw-placeholder">Loading contents&hellip;</li></ul>
    </div>
  </div>
  <script src="ttw-major-modules.js"></script>
  <script src="ttw-named-modules.js"></script>
  <script src="ttw-symbols.js"></script>
  <script src="ttweave.js"></script>
</body>
</html>`

// cssContent is the stylesheet for the woven output.
const cssContent = `:root {
  --ttw-bg: #ffffff;
  --ttw-bg-sidebar: #f1f3f5;
  --ttw-text: #212529;
  --ttw-border: #dee2e6;
  --ttw-accent: #228be6;
  --ttw-shadow: 0 4px 12px rgba(0,0,0,0.1);
}

* { box-sizing: border-box; }

body {
  margin: 0;
  font-family: Georgia, 'Times New Roman', serif;
  color: var(--ttw-text);
  background: var(--ttw-bg);
}

.ttw-sidebar {
  position: fixed;
  top: 0;
  left: 0;
  bottom: 0;
  background: var(--ttw-bg-sidebar);
  border-right: 1px solid var(--ttw-border);
  overflow-y: auto;
  transition: transform 0.15s ease;
  z-index: 10;
}

.ttw-sidebar.hidden { transform: translateX(-100%); }
.ttw-sidebar.visible { transform: translateX(0); }

.ttw-sidebar-links ul {
  list-style: none;
  margin: 0;
  padding: 1rem;
}

.ttw-sidebar-links li { margin: 0.25rem 0; }

.ttw-sidebar-links a {
  color: var(--ttw-text);
  text-decoration: none;
  display: block;
  padding: 0.15rem 0.35rem;
  border-radius: 4px;
}

.ttw-sidebar-links a:hover { background: rgba(0,0,0,0.06); }

.ttw-resize-handle {
  position: absolute;
  top: 0;
  right: 0;
  bottom: 0;
  width: 6px;
  cursor: col-resize;
}

.ttw-content { padding: 0 1.5rem 3rem; max-width: 900px; margin: 0 auto; }

.ttw-top-bar {
  display: flex;
  align-items: center;
  gap: 0.75rem;
  padding: 0.75rem 0;
  border-bottom: 1px solid var(--ttw-border);
  margin-bottom: 1.5rem;
}

.ttw-project-title { font-size: 1.1rem; margin: 0; font-weight: normal; }

.ttw-button {
  background: none;
  border: 1px solid var(--ttw-border);
  border-radius: 4px;
  padding: 0.3rem 0.6rem;
  cursor: pointer;
  font-size: 0.95rem;
}

.ttw-button:hover { border-color: var(--ttw-accent); color: var(--ttw-accent); }

.ttw-contents-modal {
  display: none;
  position: fixed;
  inset: 0;
  background: rgba(0,0,0,0.4);
  align-items: flex-start;
  justify-content: center;
  z-index: 20;
}

.ttw-contents-box {
  background: var(--ttw-bg);
  border-radius: 6px;
  box-shadow: var(--ttw-shadow);
  margin-top: 8vh;
  max-height: 75vh;
  overflow-y: auto;
  padding: 1rem 2rem;
  min-width: 20rem;
}

.ttw-contents-box ul { list-style: none; padding: 0; }
.ttw-contents-box li { margin: 0.3rem 0; }
.ttw-contents-box a { color: var(--ttw-accent); text-decoration: none; }
.ttw-placeholder { color: #868e96; font-style: italic; }

.ttw-module-anchor { display: inline-block; }
`

// jsContent is the browser-side navigation script. It mirrors the state
// machines in internal/nav: the sidebar's three-state visibility model
// with persisted choice, the swipe and resize gestures, and the
// contents modal whose open/closed decision reads the computed display.
const jsContent = `(function() {
  "use strict";

  var STORAGE_KEY = "ttweave-sidebar";
  var SWIPE_MAX_MS = 250;
  var SWIPE_MIN_PX = 150;
  var EDGE_ZONE = 0.25;

  var sidebar = document.getElementById("ttw-sidebar");
  var toggle = document.getElementById("ttw-sidebar-toggle");
  var handle = document.getElementById("ttw-resize-handle");
  var modal = document.getElementById("ttw-contents-modal");
  var contentsToggle = document.getElementById("ttw-contents-toggle");
  var list = document.getElementById("ttw-contents-list");
  var collapsePx = parseInt(document.body.dataset.collapsePx || "100", 10);
  var contentsKey = document.body.dataset.contentsKey || "c";

  function readVisibility() {
    try { return localStorage.getItem(STORAGE_KEY); } catch (e) { return null; }
  }

  function persistVisibility(v) {
    try { localStorage.setItem(STORAGE_KEY, v); } catch (e) {}
  }

  function applyVisibility(visible) {
    sidebar.classList.toggle("visible", visible);
    sidebar.classList.toggle("hidden", !visible);
    // Link focusability must always mirror panel visibility.
    var tab = visible ? 0 : -1;
    sidebar.querySelectorAll("a").forEach(function(a) { a.tabIndex = tab; });
  }

  function setVisibility(visible) {
    applyVisibility(visible);
    persistVisibility(visible ? "visible" : "hidden");
  }

  function isVisible() {
    return sidebar.classList.contains("visible");
  }

  applyVisibility(readVisibility() === "visible");

  toggle.addEventListener("click", function() { setVisibility(!isVisible()); });

  // Swipe recognition: fast + long, gated on the starting position.
  var touchX = null;
  var touchT = 0;

  document.addEventListener("touchstart", function(ev) {
    touchX = ev.touches[0].clientX;
    touchT = Date.now();
  }, { passive: true });

  document.addEventListener("touchend", function(ev) {
    if (touchX === null) return;
    var startX = touchX;
    var dx = ev.changedTouches[0].clientX - startX;
    var dt = Date.now() - touchT;
    touchX = null;
    if (dt >= SWIPE_MAX_MS || dx < SWIPE_MIN_PX) return;
    if (!isVisible() && startX <= EDGE_ZONE * window.innerWidth) {
      setVisibility(true);
    } else if (isVisible() && startX <= sidebar.offsetWidth) {
      setVisibility(false);
    }
  }, { passive: true });

  // Resize handle: transient state; pointer-up decides hidden vs visible
  // from the last computed width and persists the width as a style.
  var resizing = false;
  var resizeWidth = 0;

  handle.addEventListener("pointerdown", function(ev) {
    resizing = true;
    resizeWidth = sidebar.offsetWidth;
    handle.setPointerCapture(ev.pointerId);
    ev.preventDefault();
  });

  handle.addEventListener("pointermove", function(ev) {
    if (!resizing) return;
    resizeWidth = Math.max(0, Math.min(window.innerWidth, ev.clientX));
  });

  handle.addEventListener("pointerup", function() {
    if (!resizing) return;
    resizing = false;
    if (resizeWidth < collapsePx) {
      setVisibility(false);
      return;
    }
    sidebar.style.width = resizeWidth + "px";
    setVisibility(true);
  });

  // Contents modal: the rendered display value is the source of truth,
  // so repeated toggles stay consistent even if outside code touched
  // the element.
  var prevOverflow = "";

  function toggleContents() {
    if (getComputedStyle(modal).display === "none") {
      prevOverflow = document.body.style.overflow;
      document.body.style.overflow = "hidden";
      modal.style.display = "flex";
    } else {
      modal.style.display = "none";
      document.body.style.overflow = prevOverflow;
    }
  }

  contentsToggle.addEventListener("click", toggleContents);

  modal.addEventListener("click", function(ev) {
    if (ev.target === modal) toggleContents();
  });

  document.addEventListener("keydown", function(ev) {
    var t = ev.target;
    if (t && (t.tagName === "INPUT" || t.tagName === "TEXTAREA" || t.isContentEditable)) return;
    if (ev.key === contentsKey) toggleContents();
  });

  // Populate the contents list from the major-module index, preserving
  // record order. The placeholder stays if the index script failed to
  // load.
  if (typeof ttWeaveMajorModules !== "undefined") {
    list.innerHTML = "";
    ttWeaveMajorModules.forEach(function(entry) {
      var li = document.createElement("li");
      var a = document.createElement("a");
      a.href = "#m" + entry.id;
      a.textContent = entry.id + ". " + entry.d;
      a.addEventListener("click", function() {
        if (getComputedStyle(modal).display !== "none") toggleContents();
      });
      li.appendChild(a);
      list.appendChild(li);
    });
  }
})();
`
