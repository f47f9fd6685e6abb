package content

// ArticleTag marks models that are articles.
const ArticleTag = "EknArticleObject"

// Model is a single content object of an app.
type Model struct {
	ID               string   `yaml:"id" json:"id" toml:"id"`
	Title            string   `yaml:"title" json:"title" toml:"title"`
	OriginalTitle    string   `yaml:"original_title" json:"original_title" toml:"original_title"`
	Synopsis         string   `yaml:"synopsis" json:"synopsis" toml:"synopsis"`
	ContentType      string   `yaml:"content_type" json:"content_type" toml:"content_type"`
	CopyrightHolder  string   `yaml:"copyright_holder" json:"copyright_holder" toml:"copyright_holder"`
	Language         string   `yaml:"language" json:"language" toml:"language"`
	LastModifiedDate string   `yaml:"last_modified_date" json:"last_modified_date" toml:"last_modified_date"`
	License          string   `yaml:"license" json:"license" toml:"license"`
	OriginalURI      string   `yaml:"original_uri" json:"original_uri" toml:"original_uri"`
	ThumbnailURI     string   `yaml:"thumbnail_uri" json:"thumbnail_uri" toml:"thumbnail_uri"`
	Tags             []string `yaml:"tags" json:"tags" toml:"tags"`
	ChildTags        []string `yaml:"child_tags" json:"child_tags" toml:"child_tags"`
	SequenceNumber   int      `yaml:"sequence_number" json:"sequence_number" toml:"sequence_number"`

	// Blurbs are alternative card titles for the discovery feed.
	Blurbs []string `yaml:"blurbs" json:"blurbs" toml:"blurbs"`
}

// DisplayTitle returns the original title when set, else the title.
func (m Model) DisplayTitle() string {
	if m.OriginalTitle != "" {
		return m.OriginalTitle
	}
	return m.Title
}

// HasTag reports whether the model carries tag.
func (m Model) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Fields returns the model as a dictionary, omitting empty values.
func (m Model) Fields() map[string]interface{} {
	out := make(map[string]interface{})
	put := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}
	put("id", m.ID)
	put("title", m.Title)
	put("original_title", m.OriginalTitle)
	put("content_type", m.ContentType)
	put("copyright_holder", m.CopyrightHolder)
	put("language", m.Language)
	put("last_modified_date", m.LastModifiedDate)
	put("license", m.License)
	put("original_uri", m.OriginalURI)
	put("thumbnail_uri", m.ThumbnailURI)
	if m.Tags != nil {
		out["tags"] = append([]string(nil), m.Tags...)
	}
	if m.ChildTags != nil {
		out["child_tags"] = append([]string(nil), m.ChildTags...)
	}
	return out
}
