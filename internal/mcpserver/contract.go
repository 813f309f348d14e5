package mcpserver

// ChangeSetContract describes the canonical change-set JSON format that
// LLM consumers must follow when proposing trip changes.
const ChangeSetContract = `# Wayfare Change-Set Contract

A change-set is a single JSON object. Every field is optional; present
fields must have the shapes below.

## Fields

` + "```" + `jsonc
{
  // New entities. Itinerary adds carry "title", task adds carry "text",
  // packing adds carry "category" plus "items".
  "adds": [
    {"title": "Visit museum", "startDate": "2026-03-14", "startTime": "10:00", "location": "Te Papa"},
    {"text": "Renew passport", "dueDate": "2026-02-01"},
    {"category": "Toiletries", "items": ["Toothbrush", {"item": "Sunscreen", "quantity": 2, "recommendedBagType": "Carry-on"}]}
  ],

  // Field updates for existing records, located by id. Unknown ids are
  // ignored (the user may have deleted the record meanwhile).
  "updates": [
    {"id": "abc123", "fields": {"startTime": "14:00", "location": "Wellington Waterfront"}}
  ],

  // Deletions: bare id strings and {"id": ...} objects may be mixed.
  "deletes": ["abc123", {"id": "def456"}],

  // Packing: add items to an existing category by category id.
  "categoryUpdates": [
    {"categoryId": "cat1", "newItems": ["Power adapter"]}
  ],

  // Packing: patch one item. "bagId": null clears a bag assignment.
  "itemUpdates": [
    {"itemId": "item1", "updates": {"quantity": 3, "bagId": null}}
  ],

  // Packing: flat list of item/category ids to remove.
  "removeItems": ["item2"],

  // One-line human-readable description of the whole change-set.
  "changeSummary": "Added museum visit and packing for the beach day",

  // Distilled attachment summaries, array or map form.
  "newDistilledData": [
    {"attachmentId": "att1", "summary": "Flight NZ101, departs 08:30"}
  ]
}
` + "```" + `

## Rules

- Ids may be strings or numbers; both compare equal after normalization.
- Packing items may be plain strings or objects with "item", "quantity",
  "recommendedBagType", and "bagId".
- Bag hints resolve against existing bags by exact name, then by type
  ("Carry-on", "Checked"). Unresolvable hints are kept for the user.
- Re-sending an add that already exists is safe: duplicates (same text and
  compatible bag) are suppressed.
- Do not invent ids for new entities; the engine generates them.
`
