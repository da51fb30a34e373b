package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"reelmap/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valSentiment(p *domain.Sentiment) any {
	if p == nil {
		return nil
	}
	return string(*p)
}

// valJSONList stores nil slices as [] so the NOT NULL JSON columns hold.
func valJSONList(v []string) string {
	if v == nil {
		return "[]"
	}
	b, _ := json.Marshal(v)
	return string(b)
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ReplaceRun swaps the stored matches and misses of shortcode for the
// given run in one transaction. Position keeps candidate order.
func (r *Repo) ReplaceRun(ctx context.Context, runID, shortcode string, ms []domain.MatchedPlace, misses []domain.Miss) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, deleteMatchesSQL, shortcode); err != nil {
		return fmt.Errorf("delete matches: %w", err)
	}
	if len(ms) > 0 {
		values := make([]string, 0, len(ms))
		args := make([]any, 0, len(ms)*21) // 21 params per row
		for i, m := range ms {
			values = append(values, matchRowPlaceholders)
			args = append(args,
				shortcode,
				i,
				runID,
				m.CandidateName,
				m.MatchConfidence.Rounded(),
				m.PlaceID,
				m.DisplayName,
				m.FormattedAddress,
				m.Lat,
				m.Lng,
				valJSONList(m.Types),
				valStr(m.Website),
				valStr(m.Phone),
				valF64(m.Rating),
				valInt(m.RatingCount),
				valInt(m.PriceLevel),
				m.MapsURL,
				valStr(m.CreatorReview),
				valSentiment(m.Sentiment),
				valJSONList(m.MenuHighlights),
				valJSONList(m.Timecodes),
			)
		}
		if _, err = tx.ExecContext(ctx, insertMatchesPrefix+strings.Join(values, ","), args...); err != nil {
			return fmt.Errorf("insert matches: %w", err)
		}
	}

	if _, err = tx.ExecContext(ctx, deleteMissesSQL, shortcode); err != nil {
		return fmt.Errorf("delete misses: %w", err)
	}
	if len(misses) > 0 {
		values := make([]string, 0, len(misses))
		args := make([]any, 0, len(misses)*5)
		for _, m := range misses {
			values = append(values, missRowPlaceholders)
			args = append(args, shortcode, m.Position, m.Candidate, string(m.State), truncateUTF8(m.Reason, maxReasonBytes))
		}
		if _, err = tx.ExecContext(ctx, insertMissesPrefix+strings.Join(values, ","), args...); err != nil {
			return fmt.Errorf("insert misses: %w", err)
		}
	}
	return tx.Commit()
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// decodeList reads a JSON list column; NULL or empty reads as [].
func decodeList(col string, b []byte) ([]string, error) {
	out := []string{}
	if len(b) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", col, err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func (r *Repo) ListPlaces(ctx context.Context, shortcode string) ([]domain.MatchedPlace, error) {
	rows, err := r.db.QueryContext(ctx, listPlacesSQL, shortcode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MatchedPlace
	for rows.Next() {
		var (
			m                         domain.MatchedPlace
			conf                      float64
			typesB, menuB, timecodesB []byte
			website, phone, review    sql.NullString
			sentiment                 sql.NullString
			rating                    sql.NullFloat64
			ratingCount, priceLevel   sql.NullInt64
		)
		if err := rows.Scan(
			&m.SourceShortcode,
			&m.CandidateName,
			&conf,
			&m.PlaceID,
			&m.DisplayName,
			&m.FormattedAddress,
			&m.Lat, &m.Lng,
			&typesB,
			&website, &phone,
			&rating, &ratingCount, &priceLevel,
			&m.MapsURL,
			&review, &sentiment,
			&menuB, &timecodesB,
		); err != nil {
			return nil, err
		}
		m.MatchConfidence = domain.Confidence(conf)

		if website.Valid {
			s := website.String
			m.Website = &s
		}
		if phone.Valid {
			s := phone.String
			m.Phone = &s
		}
		if rating.Valid {
			f := rating.Float64
			m.Rating = &f
		}
		if ratingCount.Valid {
			n := int(ratingCount.Int64)
			m.RatingCount = &n
		}
		if priceLevel.Valid {
			n := int(priceLevel.Int64)
			m.PriceLevel = &n
		}
		if review.Valid {
			s := review.String
			m.CreatorReview = &s
		}
		if sentiment.Valid {
			s := domain.Sentiment(sentiment.String)
			m.Sentiment = &s
		}

		if m.Types, err = decodeList("types", typesB); err != nil {
			return nil, err
		}
		if m.MenuHighlights, err = decodeList("menu_highlights", menuB); err != nil {
			return nil, err
		}
		if m.Timecodes, err = decodeList("timecodes", timecodesB); err != nil {
			return nil, err
		}

		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
