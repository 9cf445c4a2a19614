package mysql

const upsertHotelSQL = `
INSERT INTO hotels
  (id, name, city, address, segment, overall_score, price_range, star_rating,
   average_rating, lat, lng, facilities, description, reviews_summary,
   top_positive_review, top_negative_review, platform_ratings)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name                = VALUES(name),
  city                = VALUES(city),
  address             = VALUES(address),
  segment             = VALUES(segment),
  overall_score       = VALUES(overall_score),
  price_range         = VALUES(price_range),
  star_rating         = VALUES(star_rating),
  average_rating      = VALUES(average_rating),
  lat                 = VALUES(lat),
  lng                 = VALUES(lng),
  facilities          = VALUES(facilities),
  description         = VALUES(description),
  reviews_summary     = VALUES(reviews_summary),
  top_positive_review = VALUES(top_positive_review),
  top_negative_review = VALUES(top_negative_review),
  platform_ratings    = VALUES(platform_ratings),
  updated_at          = CURRENT_TIMESTAMP
`

// Reads are filtered in SQL; ranking happens in the app layer.
const listHotelsSQL = `
SELECT
  id, name, city, address, segment, overall_score, price_range, star_rating,
  average_rating, lat, lng, facilities, description, reviews_summary,
  top_positive_review, top_negative_review, platform_ratings
FROM hotels
WHERE (? = '' OR LOWER(city) = LOWER(?))
  AND (? = '' OR LOWER(segment) = LOWER(?))
ORDER BY id
LIMIT ?
`

const citiesSQL = `SELECT DISTINCT city FROM hotels WHERE city <> '' ORDER BY city`

const segmentsSQL = `SELECT DISTINCT segment FROM hotels WHERE segment <> '' ORDER BY segment`
