package widget

import (
	"fmt"
	"strings"
	"text/template"
)

// ScriptParams parameterizes the loader script template for one platform.
// The per-platform scripts share every line of lifecycle logic; only
// branding and URLs differ, and those come from the platform adapter's
// descriptor.
type ScriptParams struct {
	Platform     string
	BrandColor   string
	Icon         string
	RedirectBase string
	TrackURL     string
}

// RenderScript produces the embeddable loader script for one platform.
func RenderScript(p ScriptParams) (string, error) {
	if strings.TrimSpace(p.Platform) == "" {
		return "", fmt.Errorf("widget: script platform is required")
	}
	data := struct {
		ScriptParams
		BubbleDelayMs int64
		BubbleHideMs  int64
		AttrConfig    string
		AttrAgentID   string
		AttrPosition  string
		AttrColor     string
		AttrWelcome   string
	}{
		ScriptParams:  p,
		BubbleDelayMs: BubbleDelay.Milliseconds(),
		BubbleHideMs:  BubbleAutoHide.Milliseconds(),
		AttrConfig:    AttrConfig,
		AttrAgentID:   AttrAgentID,
		AttrPosition:  AttrPosition,
		AttrColor:     AttrColor,
		AttrWelcome:   AttrWelcome,
	}
	var b strings.Builder
	if err := scriptTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render widget script: %w", err)
	}
	return b.String(), nil
}

var scriptTemplate = template.Must(template.New("widget-script").Parse(`(function () {
  'use strict';

  function locateScript() {
    if (document.currentScript) return document.currentScript;
    var tags = document.querySelectorAll('script[{{.AttrConfig}}],script[{{.AttrAgentID}}]');
    return tags.length ? tags[tags.length - 1] : null;
  }

  function resolveConfig(tag) {
    var payload = tag.getAttribute('{{.AttrConfig}}');
    if (payload) {
      var cfg = JSON.parse(atob(payload));
      if (!cfg || !cfg.apiKey) throw new Error('missing apiKey');
      cfg._payload = payload;
      return cfg;
    }
    var apiKey = tag.getAttribute('{{.AttrAgentID}}');
    if (!apiKey) return null;
    return {
      apiKey: apiKey,
      position: tag.getAttribute('{{.AttrPosition}}') || 'bottom-right',
      color: tag.getAttribute('{{.AttrColor}}') || '',
      welcomeMessage: tag.getAttribute('{{.AttrWelcome}}') || ''
    };
  }

  function cornerStyle(position) {
    switch (position) {
      case 'bottom-left': return 'bottom:20px;left:20px;';
      case 'top-right': return 'top:20px;right:20px;';
      case 'top-left': return 'top:20px;left:20px;';
      default: return 'bottom:20px;right:20px;';
    }
  }

  function track(cfg, action) {
    try {
      var body = JSON.stringify({
        apiKey: cfg.apiKey,
        platform: '{{.Platform}}',
        action: action,
        timestamp: new Date().toISOString()
      });
      if (navigator.sendBeacon) {
        navigator.sendBeacon('{{.TrackURL}}', body);
        return;
      }
      fetch('{{.TrackURL}}', {
        method: 'POST',
        headers: { 'Content-Type': 'application/json' },
        body: body,
        keepalive: true
      }).catch(function () {});
    } catch (err) {
      /* tracking is best-effort */
    }
  }

  function redirectURL(cfg) {
    if (cfg._payload) {
      return '{{.RedirectBase}}?config=' + encodeURIComponent(cfg._payload);
    }
    return '{{.RedirectBase}}?key=' + encodeURIComponent(cfg.apiKey);
  }

  function showBubble(cfg, button) {
    if (!cfg.welcomeMessage) return;
    if (document.getElementById('agenthub-bubble')) return;
    var bubble = document.createElement('div');
    bubble.id = 'agenthub-bubble';
    bubble.style.cssText = 'position:fixed;' + cornerStyle(cfg.position).replace(/20px;/, '90px;') +
      'max-width:240px;padding:10px 14px;background:#fff;color:#111;border-radius:12px;' +
      'box-shadow:0 4px 16px rgba(0,0,0,.18);font:14px/1.4 sans-serif;z-index:2147483646;cursor:pointer;';
    bubble.textContent = cfg.welcomeMessage;
    bubble.addEventListener('click', function () {
      bubble.remove();
      track(cfg, 'bubble_dismissed');
    });
    document.body.appendChild(bubble);
    setTimeout(function () {
      if (bubble.parentNode) bubble.remove();
    }, {{.BubbleHideMs}});
  }

  function render(cfg) {
    var button = document.createElement('button');
    button.id = 'agenthub-launcher';
    button.setAttribute('aria-label', 'Chat with us on {{.Platform}}');
    button.style.cssText = 'position:fixed;' + cornerStyle(cfg.position) +
      'width:60px;height:60px;border-radius:50%;border:none;cursor:pointer;' +
      'display:flex;align-items:center;justify-content:center;color:#fff;' +
      'box-shadow:0 4px 12px rgba(0,0,0,.25);z-index:2147483647;' +
      'background:' + (cfg.color || '{{.BrandColor}}') + ';';
    button.innerHTML = '{{.Icon}}';
    button.firstChild.style.width = '32px';
    button.firstChild.style.height = '32px';
    button.addEventListener('click', function () {
      // window.open must run inside the click tick or popup blockers
      // intervene; tracking is independent and never awaited.
      window.open(redirectURL(cfg), '_blank', 'noopener');
      track(cfg, 'widget_click');
    });
    document.body.appendChild(button);
    track(cfg, 'widget_view');
    setTimeout(function () { showBubble(cfg, button); }, {{.BubbleDelayMs}});
  }

  var tag = locateScript();
  if (!tag) {
    console.error('[agenthub] widget script tag not found');
    return;
  }
  var cfg;
  try {
    cfg = resolveConfig(tag);
  } catch (err) {
    console.error('[agenthub] invalid widget configuration', err);
    return;
  }
  if (!cfg) {
    console.error('[agenthub] widget configuration missing');
    return;
  }
  if (document.readyState === 'loading') {
    document.addEventListener('DOMContentLoaded', function () { render(cfg); });
  } else {
    render(cfg);
  }
})();
`))
