package logic

import (
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/tldps/stats-api/internal/models"
)

// SkillCatalog is a read-only skill name -> category table. A nil catalog
// knows no skills.
type SkillCatalog struct {
	categories map[string]string
}

func NewSkillCatalog(categories map[string]string) *SkillCatalog {
	c := &SkillCatalog{categories: make(map[string]string, len(categories))}
	for k, v := range categories {
		c.categories[k] = v
	}
	return c
}

// LoadSkillCatalog reads a JSON object mapping skill names to categories.
func LoadSkillCatalog(r io.Reader) (*SkillCatalog, error) {
	var categories map[string]string
	if err := jsoniter.NewDecoder(r).Decode(&categories); err != nil {
		return nil, errors.Wrap(err, "decode skill catalog")
	}
	return NewSkillCatalog(categories), nil
}

// LoadSkillCatalogFile is LoadSkillCatalog over a file path.
func LoadSkillCatalogFile(path string) (*SkillCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open skill catalog %s", path)
	}
	defer f.Close()
	return LoadSkillCatalog(f)
}

// Category returns the skill's category, or "" when unknown.
func (c *SkillCatalog) Category(skill string) string {
	if c == nil {
		return ""
	}
	return c.categories[skill]
}

// Len reports how many skills the catalog knows.
func (c *SkillCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.categories)
}

// Annotate fills Category on each row in place.
func (c *SkillCatalog) Annotate(rows []models.SkillDamage) {
	if c.Len() == 0 {
		return
	}
	for i := range rows {
		rows[i].Category = c.Category(rows[i].Skill)
	}
}
