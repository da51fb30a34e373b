package mysql

const deleteMatchesSQL = `DELETE FROM matched_places WHERE source_shortcode = ?`

const insertMatchesPrefix = "INSERT INTO matched_places\n" +
	"  (source_shortcode, position, run_id, candidate_name, match_confidence, place_id, display_name,\n" +
	"   formatted_address, lat, lng, types, website, phone, rating, rating_count, price_level,\n" +
	"   maps_url, creator_review, sentiment, menu_highlights, timecodes)\nVALUES "

const matchRowPlaceholders = "(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)"

const deleteMissesSQL = `DELETE FROM resolution_misses WHERE source_shortcode = ?`

const insertMissesPrefix = "INSERT INTO resolution_misses\n" +
	"  (source_shortcode, position, candidate_name, state, reason)\nVALUES "

const missRowPlaceholders = "(?,?,?,?,?)"

// reasons longer than the column are cut on a rune boundary
const maxReasonBytes = 1024

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const listPlacesSQL = `
SELECT
  source_shortcode,
  candidate_name,
  match_confidence,
  place_id,
  display_name,
  formatted_address,
  lat,
  lng,
  types,
  website,
  phone,
  rating,
  rating_count,
  price_level,
  maps_url,
  creator_review,
  sentiment,
  menu_highlights,
  timecodes
FROM matched_places
WHERE source_shortcode = ?
ORDER BY position
`
