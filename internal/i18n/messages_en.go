package i18n

// englishMessages holds all English agent messages.
var englishMessages = map[string]string{
	// Pipeline progress
	"agent.analyzing":   "🔎 Analyzing your message...\n",
	"agent.greeting":    "👋 Hi, tell me which dish you want to prepare (for example: 'potato omelette').",
	"agent.no_items":    "I couldn't identify any ingredients. Please describe the dish in more detail.",
	"agent.missing_key": "Sorry, the OpenAI API key is missing or empty. From menu right go to admin mode, then agents and edit the agent in last section you can set the openai key.",

	// Ingredient list
	"ingredients.header": "🍳 Detected ingredients:\n",
	"ingredients.item":   "- %s\n",
	"ingredients.saved":  "\n🗂️ Saved %d ingredients to %s\n\n",

	// Retailer links
	"links.header":    "🛒 %s links per ingredient:",
	"links.searching": "🔎 Searching %s for: %s\n",
	"links.found":     "➡️ %s: %s\n",
	"links.not_found": "➡️ %s: Not found\n",
	"links.line":      "- %s: %s",
	"links.line_none": "- %s: Not found",

	// Menu gallery
	"menu.empty":    "No menu items detected to build a gallery.",
	"menu.saved":    "\n🗂️ Saved menu items to %s (%d items)\n",
	"menu.item":     "\n%d. %s\n",
	"menu.no_image": "⚠️ No image found for: %s\n",
	"menu.header":   "\n🍽️ Menu gallery (%d items)\n",
}
