// Package embed renders widget configurations into self-contained
// scripts servable to third-party pages.
package embed

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"paycoffee/server/internal/domain"
)

// Generator produces embed artifacts for widgets. Output is a pure
// function of the widget+owner snapshot and the configured base URLs.
type Generator struct {
	appBaseURL string
	apiBaseURL string
}

// NewGenerator creates a generator. appBaseURL is the origin of the
// supporter-facing payment page, apiBaseURL the origin serving the
// widget script endpoint.
func NewGenerator(appBaseURL, apiBaseURL string) *Generator {
	return &Generator{
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
		apiBaseURL: strings.TrimRight(apiBaseURL, "/"),
	}
}

// Snippet returns the one-line script tag an owner pastes into their page.
func (g *Generator) Snippet(widgetID string) string {
	return fmt.Sprintf(`<script src="%s/api/embed/widget.js?id=%s" defer></script>`, g.apiBaseURL, widgetID)
}

type scriptConfig struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	DefaultAmounts    []float64 `json:"defaultAmounts"`
	AllowCustomAmount bool     `json:"allowCustomAmount"`
	ButtonText        string   `json:"buttonText"`
	PrimaryColor      string   `json:"primaryColor"`
	Owner             struct {
		DisplayName  string `json:"displayName"`
		PaymanPaytag string `json:"paymanPaytag"`
	} `json:"owner"`
}

type scriptData struct {
	WidgetID   string
	BaseURL    string
	ConfigJSON string
}

// Script renders the self-executing widget loader for a widget snapshot.
func (g *Generator) Script(widget *domain.PublicWidget) (string, error) {
	cfg := scriptConfig{
		ID:                widget.ID,
		Title:             widget.Title,
		Description:       widget.Description,
		DefaultAmounts:    widget.DefaultAmounts,
		AllowCustomAmount: widget.AllowCustomAmount,
		ButtonText:        widget.ButtonText,
		PrimaryColor:      widget.PrimaryColor,
	}
	cfg.Owner.DisplayName = widget.Owner.DisplayName
	cfg.Owner.PaymanPaytag = widget.Owner.PaymanPaytag

	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("embed: encode config: %w", err)
	}

	var b strings.Builder
	err = loaderTemplate.Execute(&b, scriptData{
		WidgetID:   widget.ID,
		BaseURL:    g.appBaseURL,
		ConfigJSON: string(configJSON),
	})
	if err != nil {
		return "", fmt.Errorf("embed: render script: %w", err)
	}
	return b.String(), nil
}

var loaderTemplate = template.Must(template.New("widget.js").Parse(`(function() {
  // PayCoffee Widget v1.0.0
  var WIDGET_ID = '{{.WidgetID}}';
  var BASE_URL = '{{.BaseURL}}';
  var CONFIG = {{.ConfigJSON}};

  if (window.PayCoffeeWidget && window.PayCoffeeWidget[WIDGET_ID]) {
    console.warn('PayCoffee widget already loaded for ID:', WIDGET_ID);
    return;
  }
  window.PayCoffeeWidget = window.PayCoffeeWidget || {};
  window.PayCoffeeWidget[WIDGET_ID] = true;

  var styles = [
    '.paycoffee-widget-button{position:fixed;bottom:24px;right:24px;width:60px;height:60px;border-radius:50%;background-color:' + CONFIG.primaryColor + ';color:white;border:none;cursor:pointer;box-shadow:0 4px 12px rgba(0,0,0,0.15);display:flex;align-items:center;justify-content:center;transition:all 0.3s ease;z-index:999998;font-family:-apple-system,BlinkMacSystemFont,sans-serif;}',
    '.paycoffee-widget-button:hover{transform:scale(1.05);}',
    '.paycoffee-widget-modal{display:none;position:fixed;bottom:100px;right:24px;width:380px;max-width:calc(100vw - 48px);background:white;border-radius:16px;box-shadow:0 10px 40px rgba(0,0,0,0.2);z-index:999999;font-family:-apple-system,BlinkMacSystemFont,sans-serif;}',
    '.paycoffee-widget-modal.active{display:block;}',
    '.paycoffee-modal-header{padding:20px;border-bottom:1px solid #e5e7eb;position:relative;}',
    '.paycoffee-modal-title{font-size:20px;font-weight:600;margin:0;color:#111827;}',
    '.paycoffee-modal-subtitle{font-size:14px;color:#6b7280;margin:4px 0 0 0;}',
    '.paycoffee-modal-close{position:absolute;top:16px;right:16px;width:32px;height:32px;border:none;background:#f3f4f6;border-radius:50%;cursor:pointer;}',
    '.paycoffee-modal-content{padding:20px;}',
    '.paycoffee-amounts{display:grid;grid-template-columns:repeat(3,1fr);gap:12px;margin-bottom:16px;}',
    '.paycoffee-amount-btn{padding:12px;border:2px solid #e5e7eb;background:white;border-radius:8px;cursor:pointer;font-size:16px;font-weight:500;color:#374151;}',
    '.paycoffee-amount-btn.selected{background:' + CONFIG.primaryColor + ';color:white;border-color:' + CONFIG.primaryColor + ';}',
    '.paycoffee-custom-input{width:100%;padding:12px;border:2px solid #e5e7eb;border-radius:8px;font-size:16px;}',
    '.paycoffee-pay-button{width:100%;padding:14px;background:' + CONFIG.primaryColor + ';color:white;border:none;border-radius:8px;font-size:16px;font-weight:600;cursor:pointer;margin-top:20px;}',
    '.paycoffee-pay-button:disabled{opacity:0.5;cursor:not-allowed;}',
    '.paycoffee-powered{text-align:center;font-size:12px;color:#9ca3af;margin-top:16px;padding-top:16px;border-top:1px solid #e5e7eb;}'
  ].join('\n');

  var styleSheet = document.createElement('style');
  styleSheet.textContent = styles;
  document.head.appendChild(styleSheet);

  var amountButtons = CONFIG.defaultAmounts.map(function(amount) {
    return '<button class="paycoffee-amount-btn" data-amount="' + amount + '">$' + amount + '</button>';
  }).join('');

  var widgetHTML =
    '<button class="paycoffee-widget-button" id="paycoffee-toggle-' + WIDGET_ID + '">&#9749;</button>' +
    '<div class="paycoffee-widget-modal" id="paycoffee-modal-' + WIDGET_ID + '">' +
      '<div class="paycoffee-modal-header">' +
        '<h3 class="paycoffee-modal-title">' + CONFIG.title + '</h3>' +
        '<p class="paycoffee-modal-subtitle">Support ' + CONFIG.owner.displayName + '</p>' +
        '<button class="paycoffee-modal-close" id="paycoffee-close-' + WIDGET_ID + '">&times;</button>' +
      '</div>' +
      '<div class="paycoffee-modal-content">' +
        (CONFIG.description ? '<p style="margin:0 0 16px 0;color:#6b7280;font-size:14px;">' + CONFIG.description + '</p>' : '') +
        '<div class="paycoffee-amounts">' + amountButtons + '</div>' +
        (CONFIG.allowCustomAmount ? '<div class="paycoffee-custom-amount"><input type="number" class="paycoffee-custom-input" placeholder="Custom amount" min="1" step="0.01" id="paycoffee-custom-' + WIDGET_ID + '"></div>' : '') +
        '<button class="paycoffee-pay-button" id="paycoffee-pay-' + WIDGET_ID + '" disabled>' + CONFIG.buttonText + '</button>' +
        '<div class="paycoffee-powered">Powered by PayCoffee &bull; Payman</div>' +
      '</div>' +
    '</div>';

  var container = document.createElement('div');
  container.innerHTML = widgetHTML;
  document.body.appendChild(container);

  var selectedAmount = null;
  var modal = document.getElementById('paycoffee-modal-' + WIDGET_ID);
  var toggleBtn = document.getElementById('paycoffee-toggle-' + WIDGET_ID);
  var closeBtn = document.getElementById('paycoffee-close-' + WIDGET_ID);
  var payBtn = document.getElementById('paycoffee-pay-' + WIDGET_ID);
  var customInput = document.getElementById('paycoffee-custom-' + WIDGET_ID);
  var amountBtns = container.querySelectorAll('.paycoffee-amount-btn');

  toggleBtn.addEventListener('click', function() { modal.classList.toggle('active'); });
  closeBtn.addEventListener('click', function() { modal.classList.remove('active'); });
  document.addEventListener('click', function(e) {
    if (!container.contains(e.target)) { modal.classList.remove('active'); }
  });

  function updatePayButton() {
    if (selectedAmount && selectedAmount > 0) {
      payBtn.disabled = false;
      payBtn.textContent = CONFIG.buttonText + ' ($' + selectedAmount + ')';
    } else {
      payBtn.disabled = true;
      payBtn.textContent = CONFIG.buttonText;
    }
  }

  Array.prototype.forEach.call(amountBtns, function(btn) {
    btn.addEventListener('click', function() {
      Array.prototype.forEach.call(amountBtns, function(b) { b.classList.remove('selected'); });
      btn.classList.add('selected');
      selectedAmount = parseFloat(btn.dataset.amount);
      if (customInput) { customInput.value = ''; }
      updatePayButton();
    });
  });

  if (customInput) {
    customInput.addEventListener('input', function() {
      Array.prototype.forEach.call(amountBtns, function(b) { b.classList.remove('selected'); });
      selectedAmount = parseFloat(customInput.value) || null;
      updatePayButton();
    });
  }

  payBtn.addEventListener('click', function() {
    if (selectedAmount && selectedAmount > 0) {
      var returnUrl = encodeURIComponent(window.location.href);
      window.open(BASE_URL + '/pay/' + WIDGET_ID + '?amount=' + selectedAmount + '&return_url=' + returnUrl, '_blank');
    }
  });
})();
`))
