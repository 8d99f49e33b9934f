// Package models содержит доменные сущности movie-api.
//
// Имена полей в BSON и JSON совпадают с историческими (Title, Genre,
// Director, ...): коллекции и клиенты уже работают с ними.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Genre - жанр фильма.
type Genre struct {
	Name        string `bson:"Name"        json:"Name"`
	Description string `bson:"Description" json:"Description"`
}

// Director - режиссёр фильма. Birth/Death хранятся строкой (год), как в исходных данных.
type Director struct {
	Name  string `bson:"Name"            json:"Name"`
	Bio   string `bson:"Bio"             json:"Bio"`
	Birth string `bson:"Birth"           json:"Birth"`
	Death string `bson:"Death,omitempty" json:"Death,omitempty"`
}

// Movie - запись каталога. В этом сервисе только читается.
type Movie struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"       json:"_id"`
	Title       string             `bson:"Title"               json:"Title"`
	Description string             `bson:"Description"         json:"Description"`
	Genre       Genre              `bson:"Genre"               json:"Genre"`
	Director    Director           `bson:"Director"            json:"Director"`
	Actors      []string           `bson:"Actors,omitempty"    json:"Actors,omitempty"`
	ImagePath   string             `bson:"ImagePath,omitempty" json:"ImagePath,omitempty"`
	Featured    bool               `bson:"Featured"            json:"Featured"`
}
