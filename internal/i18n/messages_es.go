package i18n

// spanishMessages holds all Spanish agent messages.
var spanishMessages = map[string]string{
	// Pipeline progress
	"agent.analyzing":   "🔎 Analizando tu mensaje...\n",
	"agent.greeting":    "👋 Hola, dime qué plato quieres preparar (por ejemplo: 'tortilla de patata').",
	"agent.no_items":    "No pude identificar ingredientes. Por favor, especifica el plato con más detalle.",
	"agent.missing_key": "Lo siento, la clave de OpenAI falta o está vacía. Desde el menú de la derecha entra en modo administrador, luego en agentes y edita el agente; en la última sección puedes configurar la clave de OpenAI.",

	// Ingredient list
	"ingredients.header": "🍳 Ingredientes detectados:\n",
	"ingredients.item":   "- %s\n",
	"ingredients.saved":  "\n🗂️ Guardados %d ingredientes en %s\n\n",

	// Retailer links
	"links.header":    "🛒 Enlaces de %s por ingrediente:",
	"links.searching": "🔎 Buscando en %s: %s\n",
	"links.found":     "➡️ %s: %s\n",
	"links.not_found": "➡️ %s: No encontrado\n",
	"links.line":      "- %s: %s",
	"links.line_none": "- %s: No encontrado",

	// Menu gallery
	"menu.empty":    "No se detectaron elementos de menú para crear la galería.",
	"menu.saved":    "\n🗂️ Menú guardado en %s (%d elementos)\n",
	"menu.item":     "\n%d. %s\n",
	"menu.no_image": "⚠️ Sin imagen para: %s\n",
	"menu.header":   "\n🍽️ Galería del menú (%d elementos)\n",
}
