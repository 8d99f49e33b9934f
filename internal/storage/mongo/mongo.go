package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/myflixjw/movie-api/internal/config"
)

const (
	moviesCollection = "movies"
	usersCollection  = "users"
	defaultDBName    = "myflix"
)

// Mongo - тонкий адаптер для подключения и коллекций MongoDB.
// Клиент (пул соединений) создаётся один раз на процесс и живёт до Close.
type Mongo struct {
	client *mongodriver.Client
	db     *mongodriver.Database
	movies *mongodriver.Collection
	users  *mongodriver.Collection
}

// New подключается к MongoDB, проверяет его, подготавливает коллекции и обеспечивает индексацию.
func New(ctx context.Context, cfg config.DBConfig) (*Mongo, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("mongo: empty db url")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	dbName := cfg.Name
	if dbName == "" {
		dbName = databaseFromURI(cfg.URL)
	}
	db := cli.Database(dbName)

	m := &Mongo{
		client: cli,
		db:     db,
		movies: db.Collection(moviesCollection),
		users:  db.Collection(usersCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, err
	}

	return m, nil
}

// Close отключает клиента.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// ensureIndexes создаёт индексы:
// - users: уникальный Username (атомарная гарантия уникальности при вставке/переименовании);
// - movies: Title и Director.Name для точечных выборок.
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	_, err := m.users.Indexes().CreateOne(ctx, mongodriver.IndexModel{
		Keys:    bson.D{{Key: "Username", Value: 1}},
		Options: options.Index().SetName("username_unique").SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo ensure users indexes: %w", err)
	}

	_, err = m.movies.Indexes().CreateMany(ctx, []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "Title", Value: 1}},
			Options: options.Index().SetName("title"),
		},
		{
			Keys:    bson.D{{Key: "Director.Name", Value: 1}},
			Options: options.Index().SetName("director_name"),
		},
	})
	if err != nil {
		return fmt.Errorf("mongo ensure movies indexes: %w", err)
	}

	return nil
}

// databaseFromURI извлекает имя базы данных из URI-пути mongodb.
// Если оно отсутствует или не поддается расшифровке, возвращает значение по умолчанию.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return defaultDBName
}
