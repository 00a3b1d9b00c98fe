package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/makerburg/makerburg/internal/model"
)

// Seed inserts the sample catalog if the database is empty.
//
// The check is deliberately coarse: any story row at all means the database
// has been seeded (or populated by a CMS) and we leave it alone. Seeding is
// toggled from config so production deployments can run against real content.
func (db *DB) Seed(ctx context.Context) (bool, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM stories`).Scan(&count); err != nil {
		return false, fmt.Errorf("sqlite: checking for existing content: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	now := time.Now()

	for _, s := range sampleStories {
		body, err := marshalJSON(s.Body)
		if err != nil {
			return false, fmt.Errorf("sqlite: encoding story %s body: %w", s.ID, err)
		}
		var links any
		if s.CultureLinks != nil {
			links = s.CultureLinks
		}
		cultureLinks, err := marshalJSON(links)
		if err != nil {
			return false, fmt.Errorf("sqlite: encoding story %s culture links: %w", s.ID, err)
		}
		_, err = db.conn.ExecContext(ctx, `
			INSERT INTO stories (id, title, subtitle, read_time, region, craft, hero,
				body, inline_image, culture_links, is_published, created_on, updated_on)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
			s.ID, s.Title, s.Subtitle, s.ReadTime, s.Region, s.Craft, s.Hero,
			body, ptrToNull(s.InlineImage), cultureLinks, now, now,
		)
		if err != nil {
			return false, fmt.Errorf("sqlite: seeding story %s: %w", s.ID, err)
		}
	}

	for _, o := range sampleOpportunities {
		who, err := marshalJSON(o.Who)
		if err != nil {
			return false, fmt.Errorf("sqlite: encoding opportunity %s who: %w", o.ID, err)
		}
		offer, err := marshalJSON(o.Offer)
		if err != nil {
			return false, fmt.Errorf("sqlite: encoding opportunity %s offer: %w", o.ID, err)
		}
		_, err = db.conn.ExecContext(ctx, `
			INSERT INTO opportunities (id, title, for_line, deadline, region, category,
				about, who, offer, link_label, is_published, created_on, updated_on)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
			o.ID, o.Title, o.ForLine, o.Deadline, o.Region, o.Category,
			o.About, who, offer, o.LinkLabel, now, now,
		)
		if err != nil {
			return false, fmt.Errorf("sqlite: seeding opportunity %s: %w", o.ID, err)
		}
	}

	for _, v := range sampleVideos {
		_, err := db.conn.ExecContext(ctx, `
			INSERT INTO videos (id, title, duration, region, craft, thumb, description,
				is_published, created_on, updated_on)
			VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
			v.ID, v.Title, v.Duration, v.Region, v.Craft, v.Thumb, v.Description,
			now, now,
		)
		if err != nil {
			return false, fmt.Errorf("sqlite: seeding video %s: %w", v.ID, err)
		}
	}

	for _, c := range sampleCultureEntries {
		sections, err := marshalJSON(c.Sections)
		if err != nil {
			return false, fmt.Errorf("sqlite: encoding culture entry %s sections: %w", c.ID, err)
		}
		_, err = db.conn.ExecContext(ctx, `
			INSERT INTO culture_entries (id, title, region, craft, hero, intro, sections,
				is_published, created_on, updated_on)
			VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
			c.ID, c.Title, c.Region, c.Craft, c.Hero, c.Intro, sections,
			now, now,
		)
		if err != nil {
			return false, fmt.Errorf("sqlite: seeding culture entry %s: %w", c.ID, err)
		}
	}

	return true, nil
}

func strPtr(s string) *string { return &s }

var sampleStories = []model.Story{
	{
		ID:       "s1",
		Title:    "The Hands That Shape Clay",
		Subtitle: "A ceramic tradition from Oaxaca",
		ReadTime: "6 min read",
		Region:   "Mexico",
		Craft:    "Ceramics",
		Hero:     "https://images.unsplash.com/photo-1601713558325-9c2aa8d1d1ef?auto=format&fit=crop&w=1400&q=80",
		Body: []string{
			"In the hills of Oaxaca, the potter's hands work with a rhythm as old as the earth itself. Each movement carries the weight of centuries, a dance learned not from books but from watching—mothers, grandmothers, great-grandmothers—all shaping the same red clay.",
			"Clay is gathered, prepared, and shaped with patience—each vessel carrying the memory of place. The earth here has a particular quality, a richness that potters say speaks to them. They know its temperament, its moods, how it responds to rain and sun.",
			"Firing is both science and ceremony: heat, time, and intuition meet in a final transformation. The kiln becomes an altar, the fire a collaborator. What emerges is never quite predictable—and that's the beauty of it.",
			"What survives is not just an object, but a lineage—quietly handed down through generations. In every curve and glaze, there's a story waiting to be told.",
		},
		InlineImage: strPtr("https://images.unsplash.com/photo-1523413651479-597eb2da0ad6?auto=format&fit=crop&w=1400&q=80"),
		CultureLinks: []model.CultureLink{
			{Label: "Culture", Value: "Oaxaca Ceramics"},
			{Label: "Technique", Value: "Hand-thrown Clay"},
		},
	},
	{
		ID:       "s2",
		Title:    "Weaving Memory in Kashmir",
		Subtitle: "Threads, time, and a living archive",
		ReadTime: "4 min read",
		Region:   "South Asia",
		Craft:    "Textiles",
		Hero:     "https://images.unsplash.com/photo-1520975958225-53b13ab8f1a9?auto=format&fit=crop&w=1400&q=80",
		Body: []string{
			"A loom is a kind of instrument—its music is repetition, its melody is pattern. The weavers of Kashmir work in a rhythm that predates memory, their fingers dancing across threads with practiced precision.",
			"In Kashmir, weaving becomes a language of memory, passed hand to hand. Patterns encode stories—of mountains, of seasons, of journeys taken and dreams deferred. Each shawl is a map of someone's life.",
			"Every motif is a map: of landscape, of seasons, of stories lived and told again. The finest Pashmina takes months to complete, a meditation in thread and time.",
		},
	},
	{
		ID:       "s3",
		Title:    "The Indigo Masters of Japan",
		Subtitle: "Where blue becomes infinite",
		ReadTime: "5 min read",
		Region:   "Japan",
		Craft:    "Textiles",
		Hero:     "https://images.unsplash.com/photo-1528360983277-13d401cdc186?auto=format&fit=crop&w=1400&q=80",
		Body: []string{
			"In the quiet workshops of Tokushima, indigo is not just a color—it's a living thing. The vats breathe, ferment, and transform over months of careful tending.",
			"Japanese indigo dyeing, or ai-zome, requires patience measured in years. Masters spend decades learning to read the subtle signs of a healthy vat, adjusting pH, temperature, and timing by instinct.",
			"The deepest blues require dozens of dips, each layer adding depth and complexity. What emerges is a color that seems to hold the sky itself.",
		},
	},
	{
		ID:       "s4",
		Title:    "Bronze and Fire in Benin",
		Subtitle: "A royal craft reborn",
		ReadTime: "7 min read",
		Region:   "West Africa",
		Craft:    "Metalwork",
		Hero:     "https://images.unsplash.com/photo-1582582621959-48d27397dc69?auto=format&fit=crop&w=1400&q=80",
		Body: []string{
			"The bronze casters of Benin City continue a tradition that once served kings. Their lost-wax technique produces works of extraordinary detail and presence.",
			"Each piece begins with a wax model, painstakingly carved and then encased in clay. When bronze is poured, the wax melts away, leaving only metal memory.",
			"Today's artists honor their ancestors while pushing the form forward. Contemporary themes meet ancient techniques in works that speak across centuries.",
		},
	},
}

var sampleOpportunities = []model.Opportunity{
	{
		ID:        "o1",
		Title:     "Craft Futures Fund",
		ForLine:   "For textile & craft practitioners",
		Deadline:  "12 Feb 2026",
		Region:    "Global",
		Category:  "Grant",
		About:     "The Craft Futures Fund supports emerging and mid-career makers advancing craft traditions with contemporary practice. This initiative seeks to bridge traditional knowledge with modern innovation.",
		Who:       []string{"Individual makers", "Craft collectives", "Small studios"},
		Offer:     []string{"Grant funding up to $15,000", "Mentorship program", "Showcase opportunities"},
		LinkLabel: "Apply on official site",
	},
	{
		ID:        "o2",
		Title:     "Artist Residency Kyoto",
		ForLine:   "For traditional & contemporary artists",
		Deadline:  "5 Mar 2026",
		Region:    "Japan",
		Category:  "Residency",
		About:     "A residency focused on studio practice, local craft immersion, and community exchange in Kyoto. Residents work alongside Japanese master craftspeople.",
		Who:       []string{"Artists & makers", "Crafters exploring materials", "Small teams (up to 2)"},
		Offer:     []string{"Studio access", "Accommodation provided", "Local mentorship", "Material stipend"},
		LinkLabel: "View residency page",
	},
	{
		ID:        "o3",
		Title:     "Emerging Makers Award",
		ForLine:   "For young craft innovators",
		Deadline:  "20 Apr 2026",
		Region:    "Europe",
		Category:  "Open Call",
		About:     "An open call recognizing new voices in craft. Selected works will be featured in a traveling showcase across major European cultural centers.",
		Who:       []string{"Under 35 makers", "Recent graduates", "Self-taught creators"},
		Offer:     []string{"Prize funding of €5,000", "Exhibition slot", "Press visibility", "Catalog inclusion"},
		LinkLabel: "Open call details",
	},
	{
		ID:        "o4",
		Title:     "Indigenous Craft Scholarship",
		ForLine:   "For indigenous artisans worldwide",
		Deadline:  "1 Jun 2026",
		Region:    "Global",
		Category:  "Scholarship",
		About:     "Supporting indigenous craft practitioners in preserving and evolving traditional techniques. Full funding for a year-long program.",
		Who:       []string{"Indigenous artisans", "Traditional craft keepers", "Community craft leaders"},
		Offer:     []string{"Full tuition coverage", "Living stipend", "Travel grant", "Materials budget"},
		LinkLabel: "Learn more",
	},
	{
		ID:        "o5",
		Title:     "Ceramic Arts Fellowship",
		ForLine:   "For ceramic artists at any stage",
		Deadline:  "15 Jul 2026",
		Region:    "United States",
		Category:  "Fellowship",
		About:     "A prestigious fellowship offering ceramic artists time, space, and resources to develop ambitious new bodies of work.",
		Who:       []string{"Professional ceramicists", "Studio potters", "Sculptural artists"},
		Offer:     []string{"12-month fellowship", "Private studio", "Kiln access", "$24,000 stipend"},
		LinkLabel: "Apply now",
	},
}

var sampleVideos = []model.Video{
	{
		ID:          "v1",
		Title:       "Inside a Woodblock Printing Studio",
		Duration:    "1:20",
		Region:      "India",
		Craft:       "Printing",
		Thumb:       "https://images.unsplash.com/photo-1581349485608-9469926a8e5f?auto=format&fit=crop&w=1400&q=80",
		Description: "A short look at the rhythm of block printing—hands, ink, and pattern in motion. Watch as generations of knowledge flow through careful movements.",
	},
	{
		ID:          "v2",
		Title:       "Clay, Water, Fire",
		Duration:    "2:10",
		Region:      "Mexico",
		Craft:       "Ceramics",
		Thumb:       "https://images.unsplash.com/photo-1523413651479-597eb2da0ad6?auto=format&fit=crop&w=1400&q=80",
		Description: "From wet clay to fired form—how vessels move through transformation. A meditation on material and making.",
	},
	{
		ID:          "v3",
		Title:       "The Loom's Song",
		Duration:    "3:45",
		Region:      "Guatemala",
		Craft:       "Textiles",
		Thumb:       "https://images.unsplash.com/photo-1558618666-fcd25c85cd64?auto=format&fit=crop&w=1400&q=80",
		Description: "Backstrap weaving in the highlands—where tradition meets the rhythm of daily life. Colors emerge from ancient patterns.",
	},
	{
		ID:          "v4",
		Title:       "Forging Damascus Steel",
		Duration:    "4:30",
		Region:      "Japan",
		Craft:       "Metalwork",
		Thumb:       "https://images.unsplash.com/photo-1504328345606-18bbc8c9d7d1?auto=format&fit=crop&w=1400&q=80",
		Description: "The ancient art of folding steel, layer upon layer. Heat, hammer, and patience create blades of legendary strength.",
	},
}

var sampleCultureEntries = []model.CultureEntry{
	{
		ID:     "c1",
		Title:  "Ajrak Printing",
		Region: "Sindh, Pakistan",
		Craft:  "Textiles",
		Hero:   "https://images.unsplash.com/photo-1558618666-fcd25c85cd64?auto=format&fit=crop&w=1400&q=80",
		Intro:  "A resist-dye printing tradition rooted in geometry, patience, and deep indigo tones. Ajrak is more than cloth—it's identity, ceremony, and belonging.",
		Sections: []model.CultureSection{
			{
				H: "Origins & History",
				P: "Ajrak patterns have been found in the ancient Indus Valley civilization, making this one of the world's oldest continuous craft traditions. The name itself may derive from 'azrak,' the Arabic word for blue. For millennia, Ajrak has served as identity, gift, and ceremony—carried through time in cloth.",
			},
			{
				H: "Materials & Techniques",
				P: "Traditional Ajrak uses natural dyes—indigo for blue, madder for red—applied through a complex process of resist printing. Wood blocks carved with geometric patterns press a mud-resist mixture onto cloth. Multiple rounds of dyeing and washing reveal the final design. The process can take up to two weeks.",
			},
			{
				H: "Cultural Significance",
				P: "More than decoration, Ajrak is a marker of belonging and a living craft economy. It's given at births, weddings, and funerals. Men wear it as turbans; it drapes over shoulders in greeting. The geometric patterns are said to represent the cosmos, connecting wearers to something larger.",
			},
		},
	},
	{
		ID:     "c2",
		Title:  "Kintsugi",
		Region: "Japan",
		Craft:  "Ceramics",
		Hero:   "https://images.unsplash.com/photo-1528360983277-13d401cdc186?auto=format&fit=crop&w=1400&q=80",
		Intro:  "The Japanese art of repairing broken pottery with gold. Rather than hiding damage, Kintsugi celebrates it—transforming fractures into features.",
		Sections: []model.CultureSection{
			{
				H: "Philosophy",
				P: "Kintsugi embodies the Japanese concept of wabi-sabi—finding beauty in imperfection. A broken bowl becomes more valuable after repair, its history visible in gleaming gold lines. The practice teaches acceptance of change and impermanence.",
			},
			{
				H: "Technique",
				P: "Traditional Kintsugi uses urushi lacquer mixed with powdered gold, silver, or platinum. The process requires patience—each layer must cure for days. Modern practitioners continue to use authentic materials, though some contemporary versions employ synthetic adhesives.",
			},
			{
				H: "Modern Practice",
				P: "Today, Kintsugi has become a metaphor for resilience. Artists worldwide apply its principles to ceramics, furniture, and even digital art. The message remains: our breaks and repairs are part of what makes us beautiful.",
			},
		},
	},
	{
		ID:     "c3",
		Title:  "Kilim Weaving",
		Region: "Anatolia, Turkey",
		Craft:  "Textiles",
		Hero:   "https://images.unsplash.com/photo-1600166898405-da9535204843?auto=format&fit=crop&w=1400&q=80",
		Intro:  "Flat-woven rugs that carry the stories of nomadic peoples. Each kilim is a document of place, tribe, and maker.",
		Sections: []model.CultureSection{
			{
				H: "Nomadic Heritage",
				P: "Kilims evolved as practical floor coverings for tent-dwelling peoples. Lighter than pile rugs, they could be rolled and transported easily. The patterns encoded tribal identity—a kilim could tell you where a family came from.",
			},
			{
				H: "Symbolic Language",
				P: "Every motif carries meaning. The elibelinde represents fertility; the wolf's mouth offers protection. Weavers combine these symbols intuitively, creating textiles that speak in a visual language passed through generations.",
			},
			{
				H: "Contemporary Revival",
				P: "Young Turkish designers are reviving kilim traditions, working with village weavers to create contemporary pieces. The ancient craft finds new life in modern interiors, connecting global audiences to Anatolian heritage.",
			},
		},
	},
}
