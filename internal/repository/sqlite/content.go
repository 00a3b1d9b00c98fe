package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/makerburg/makerburg/internal/apperror"
	"github.com/makerburg/makerburg/internal/model"
	"github.com/makerburg/makerburg/internal/repository"
)

// compile-time check that *DB implements repository.ContentRepository
var _ repository.ContentRepository = (*DB)(nil)

// JSON COLUMNS:
// SQLite has no native array type, so slice-valued fields (body, who, offer,
// sections, culture_links) are stored as JSON text and decoded on read.
// marshalJSON/unmarshalJSON below keep the nil-vs-NULL distinction: a nil
// slice round-trips as SQL NULL, not the string "null".

func marshalJSON(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func unmarshalJSON(s sql.NullString, dst any) error {
	if !s.Valid || s.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(s.String), dst)
}

func nullToPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func ptrToNull(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

// --- Stories ---

const storyColumns = `id, title, subtitle, read_time, region, craft, hero,
	body, inline_image, culture_links, source, src_fav_icon, src_link,
	author, is_published, created_on, updated_on`

func scanStory(row interface{ Scan(...any) error }) (*model.Story, error) {
	var s model.Story
	var body, cultureLinks, inlineImage, source, favIcon, link, author sql.NullString
	err := row.Scan(
		&s.ID, &s.Title, &s.Subtitle, &s.ReadTime, &s.Region, &s.Craft, &s.Hero,
		&body, &inlineImage, &cultureLinks, &source, &favIcon, &link,
		&author, &s.IsPublished, &s.CreatedOn, &s.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSON(body, &s.Body); err != nil {
		return nil, fmt.Errorf("decoding story %s body: %w", s.ID, err)
	}
	if err := unmarshalJSON(cultureLinks, &s.CultureLinks); err != nil {
		return nil, fmt.Errorf("decoding story %s culture links: %w", s.ID, err)
	}
	s.InlineImage = nullToPtr(inlineImage)
	s.Source = nullToPtr(source)
	s.SrcFavIcon = nullToPtr(favIcon)
	s.SrcLink = nullToPtr(link)
	s.Author = nullToPtr(author)
	return &s, nil
}

// ListStories returns all published stories.
func (db *DB) ListStories(ctx context.Context) ([]model.Story, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+storyColumns+` FROM stories WHERE is_published = 1`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing stories: %w", err)
	}
	defer rows.Close()

	stories := []model.Story{}
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning story: %w", err)
		}
		stories = append(stories, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating stories: %w", err)
	}
	return stories, nil
}

// GetStory returns a single story by id, or apperror.ErrNotFound.
func (db *DB) GetStory(ctx context.Context, id string) (*model.Story, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+storyColumns+` FROM stories WHERE id = ?`, id)
	s, err := scanStory(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("story", id)
		}
		return nil, fmt.Errorf("sqlite: getting story %s: %w", id, err)
	}
	return s, nil
}

// --- Opportunities ---

const opportunityColumns = `id, title, for_line, deadline, region, category,
	about, who, offer, link_label, source, src_fav_icon, src_link, author,
	is_published, created_on, updated_on`

func scanOpportunity(row interface{ Scan(...any) error }) (*model.Opportunity, error) {
	var o model.Opportunity
	var who, offer, source, favIcon, link, author sql.NullString
	err := row.Scan(
		&o.ID, &o.Title, &o.ForLine, &o.Deadline, &o.Region, &o.Category,
		&o.About, &who, &offer, &o.LinkLabel, &source, &favIcon, &link,
		&author, &o.IsPublished, &o.CreatedOn, &o.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSON(who, &o.Who); err != nil {
		return nil, fmt.Errorf("decoding opportunity %s who: %w", o.ID, err)
	}
	if err := unmarshalJSON(offer, &o.Offer); err != nil {
		return nil, fmt.Errorf("decoding opportunity %s offer: %w", o.ID, err)
	}
	o.Source = nullToPtr(source)
	o.SrcFavIcon = nullToPtr(favIcon)
	o.SrcLink = nullToPtr(link)
	o.Author = nullToPtr(author)
	return &o, nil
}

// ListOpportunities returns all published opportunities.
func (db *DB) ListOpportunities(ctx context.Context) ([]model.Opportunity, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities WHERE is_published = 1`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing opportunities: %w", err)
	}
	defer rows.Close()

	opps := []model.Opportunity{}
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning opportunity: %w", err)
		}
		opps = append(opps, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating opportunities: %w", err)
	}
	return opps, nil
}

// GetOpportunity returns a single opportunity by id, or apperror.ErrNotFound.
func (db *DB) GetOpportunity(ctx context.Context, id string) (*model.Opportunity, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities WHERE id = ?`, id)
	o, err := scanOpportunity(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("opportunity", id)
		}
		return nil, fmt.Errorf("sqlite: getting opportunity %s: %w", id, err)
	}
	return o, nil
}

// --- Videos ---

const videoColumns = `id, title, duration, region, craft, thumb, description,
	source, src_fav_icon, src_link, author, is_published, created_on, updated_on`

func scanVideo(row interface{ Scan(...any) error }) (*model.Video, error) {
	var v model.Video
	var source, favIcon, link, author sql.NullString
	err := row.Scan(
		&v.ID, &v.Title, &v.Duration, &v.Region, &v.Craft, &v.Thumb,
		&v.Description, &source, &favIcon, &link, &author,
		&v.IsPublished, &v.CreatedOn, &v.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	v.Source = nullToPtr(source)
	v.SrcFavIcon = nullToPtr(favIcon)
	v.SrcLink = nullToPtr(link)
	v.Author = nullToPtr(author)
	return &v, nil
}

// ListVideos returns all published videos.
func (db *DB) ListVideos(ctx context.Context) ([]model.Video, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE is_published = 1`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing videos: %w", err)
	}
	defer rows.Close()

	videos := []model.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning video: %w", err)
		}
		videos = append(videos, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating videos: %w", err)
	}
	return videos, nil
}

// GetVideo returns a single video by id, or apperror.ErrNotFound.
func (db *DB) GetVideo(ctx context.Context, id string) (*model.Video, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE id = ?`, id)
	v, err := scanVideo(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("video", id)
		}
		return nil, fmt.Errorf("sqlite: getting video %s: %w", id, err)
	}
	return v, nil
}

// --- Culture entries ---

const cultureColumns = `id, title, region, craft, hero, intro, sections,
	author, is_published, created_on, updated_on`

func scanCultureEntry(row interface{ Scan(...any) error }) (*model.CultureEntry, error) {
	var c model.CultureEntry
	var sections, author sql.NullString
	err := row.Scan(
		&c.ID, &c.Title, &c.Region, &c.Craft, &c.Hero, &c.Intro,
		&sections, &author, &c.IsPublished, &c.CreatedOn, &c.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSON(sections, &c.Sections); err != nil {
		return nil, fmt.Errorf("decoding culture entry %s sections: %w", c.ID, err)
	}
	c.Author = nullToPtr(author)
	return &c, nil
}

// ListCultureEntries returns all published culture entries.
func (db *DB) ListCultureEntries(ctx context.Context) ([]model.CultureEntry, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+cultureColumns+` FROM culture_entries WHERE is_published = 1`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing culture entries: %w", err)
	}
	defer rows.Close()

	entries := []model.CultureEntry{}
	for rows.Next() {
		c, err := scanCultureEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning culture entry: %w", err)
		}
		entries = append(entries, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating culture entries: %w", err)
	}
	return entries, nil
}

// GetCultureEntry returns a single culture entry by id, or apperror.ErrNotFound.
func (db *DB) GetCultureEntry(ctx context.Context, id string) (*model.CultureEntry, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+cultureColumns+` FROM culture_entries WHERE id = ?`, id)
	c, err := scanCultureEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("culture entry", id)
		}
		return nil, fmt.Errorf("sqlite: getting culture entry %s: %w", id, err)
	}
	return c, nil
}
