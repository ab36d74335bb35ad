// Package domain models the crop advisory knowledge base and its inputs.
//
// # Data Sources
//
// Crop facts are derived once at startup from an OWL/XML (OWX) ontology
// document. The ontology declares crop named individuals, their soil and
// climate affinities via object-property restrictions, and market/
// sustainability attributes. See the ontology package for the extraction
// rules.
//
// Market price records come from the Agmarknet-style mandi price CSV
// published by data.gov.in, one row per commodity quotation:
//
//	state, district, market, commodity, variety, grade,
//	arrival_date, min_price, max_price, modal_price
//
// Prices are in rupees per quintal. The modal price is the most frequent
// traded price for the day and is the figure used for averaging.
//
// # Vocabularies
//
// Soil types:    Clay, Loam, Sandy, ClayLoam
// Climates:      Tropical, Humid, Dry, Moderate
// Levels:        Low, Medium, High (water usage, carbon footprint, market value)
//
// Ontology authors sometimes model climate affinity under growsIn rather
// than suitableFor, so both vocabularies are checked for that property.
//
// # Collaborators
//
// Live weather (WeatherProvider) and natural-language explanations
// (Explainer) are capability interfaces implemented by adapters. Both are
// optional: a nil provider or a failed call degrades the recommendation,
// never aborts it.
package domain
