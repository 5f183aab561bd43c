package model

// CatalogEntity is the set of entities mirrored from the external catalog.
type CatalogEntity interface {
	Character | Planet
	DisplayName() string
}

// Character is a person from the catalog.
type Character struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Name      string `json:"name" gorm:"size:80;uniqueIndex;not null"`
	HairColor string `json:"hair_color" gorm:"size:20;not null"`
	EyeColor  string `json:"eye_color" gorm:"size:40;not null"`
	Gender    string `json:"gender" gorm:"size:40;not null"`
}

// DisplayName implements CatalogEntity.
func (c Character) DisplayName() string { return c.Name }

// Planet is a planet from the catalog.
type Planet struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	Name       string  `json:"name" gorm:"size:80;uniqueIndex;not null"`
	Population *string `json:"population" gorm:"size:100"`
	Climate    string  `json:"climate" gorm:"size:80;not null"`
	Terrain    string  `json:"terrain" gorm:"size:80;not null"`
	Diameter   int64   `json:"diameter" gorm:"not null"`
}

// DisplayName implements CatalogEntity.
func (p Planet) DisplayName() string { return p.Name }
