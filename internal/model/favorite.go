package model

import "fmt"

// Nature tags which catalog table a favorite points at.
type Nature string

const (
	NatureCharacter Nature = "character"
	NaturePlanet    Nature = "planet"
)

// Valid reports whether n is one of the known natures.
func (n Nature) Valid() bool {
	return n == NatureCharacter || n == NaturePlanet
}

// FavoriteTarget is a reference to either a character or a planet.
// Build it with CharacterTarget or PlanetTarget.
type FavoriteTarget struct {
	Nature Nature
	ID     uint
}

// CharacterTarget references the character with the given id.
func CharacterTarget(id uint) FavoriteTarget {
	return FavoriteTarget{Nature: NatureCharacter, ID: id}
}

// PlanetTarget references the planet with the given id.
func PlanetTarget(id uint) FavoriteTarget {
	return FavoriteTarget{Nature: NaturePlanet, ID: id}
}

func (t FavoriteTarget) String() string {
	return fmt.Sprintf("%s %d", t.Nature, t.ID)
}

// Favorite is a user's bookmark of a character or planet.
// The (Nature, NatureID) pair is not a foreign key and may dangle.
type Favorite struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	UserID   uint   `json:"user_id" gorm:"not null;uniqueIndex:dont_repeat_favorites;uniqueIndex:uq_favorites_user_target"`
	Name     string `json:"name" gorm:"size:80;not null;uniqueIndex:dont_repeat_favorites"`
	Nature   Nature `json:"nature" gorm:"type:varchar(40);not null;uniqueIndex:uq_favorites_user_target"`
	NatureID uint   `json:"nature_id" gorm:"not null;uniqueIndex:uq_favorites_user_target"`
}

// Target returns the referenced entity as a FavoriteTarget.
func (f Favorite) Target() FavoriteTarget {
	return FavoriteTarget{Nature: f.Nature, ID: f.NatureID}
}
