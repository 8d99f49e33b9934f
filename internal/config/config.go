// config реализует конфигурацию movie-api: загрузка из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config - корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
//
// Перед разбором подхватывается ./.env (если есть); уже выставленные
// переменные окружения он не перетирает.
type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	DB       DBConfig      `yaml:"db"`
	Auth     AuthConfig    `yaml:"auth"`
	Access   AccessConfig  `yaml:"access"`
	CORS     CORSConfig    `yaml:"cors"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// HTTPConfig - публичный REST-сервер.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"PORT" env-default:"8080"`
	// Каталог статики, отдаётся на все пути, не занятые API.
	StaticDir string `yaml:"static_dir" env:"STATIC_DIR" env-default:"public"`
	// Лимит попыток входа с одного IP за окно; 0 выключает лимит.
	LoginRateLimit  int           `yaml:"login_rate_limit"  env:"LOGIN_RATE_LIMIT"  env-default:"10"`
	LoginRateWindow time.Duration `yaml:"login_rate_window" env:"LOGIN_RATE_WINDOW" env-default:"1m"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// DBConfig - настройки подключения к MongoDB.
type DBConfig struct {
	URL string `yaml:"url" env:"CONNECTION_URI" env-required:"true"`
	// Name - имя БД; если пусто, берётся из пути URI (см. storage/mongo).
	Name string `yaml:"name" env:"DB_NAME"`
}

// AuthConfig - параметры выпуска/проверки токенов и хэширования паролей.
type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL   time.Duration `yaml:"token_ttl"  env:"TOKEN_TTL"  env-default:"168h"`
	Issuer     string        `yaml:"issuer"     env:"ISSUER"     env-default:"movie-api"`
	Audience   []string      `yaml:"audience"   env:"AUDIENCE"   env-default:"movie-api"`
	BcryptCost int           `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
}

// AccessConfig - политика доступа к пользовательским маршрутам.
type AccessConfig struct {
	// ProtectUserRoutes требует токен на чтение/изменение/удаление пользователя
	// и на операции с избранным. По умолчанию выключено (исторический контракт).
	ProtectUserRoutes bool `yaml:"protect_user_routes" env:"PROTECT_USER_ROUTES" env-default:"false"`
}

// CORSConfig - белый список Origin.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:8080,https://myflixangularjw.netlify.app,https://myflixjw.netlify.app,http://localhost:1234,https://myflixjw.herokuapp.com,http://localhost:4200,https://localhost:4200"`
}

// TimeoutConfig - общий дедлайн обработки запроса.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"15s"`
}

// MustLoad - обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// После чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	var cfg Config

	// .env опционален: отсутствие файла не ошибка.
	_ = godotenv.Load()

	// чтение файла + overlay ENV.
	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	var (
		out *Config
		err error
	)

	switch envPath := os.Getenv("CONFIG_PATH"); {
	case path != "":
		// 1) Явный путь.
		out, err = tryRead(path)
	case envPath != "":
		// 2) CONFIG_PATH.
		out, err = tryRead(envPath)
	default:
		if _, statErr := os.Stat("local.yaml"); statErr == nil {
			// 3) ./local.yaml.
			out, err = tryRead("local.yaml")
			break
		}

		// 4) Только ENV.
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
		}
		out = &cfg
	}

	if err != nil {
		return nil, err
	}

	out.normalize()

	if err := out.validate(); err != nil {
		return nil, err
	}

	return out, nil
}

// normalize приводит значения к каноничному виду.
// Origin в заголовке никогда не содержит завершающий слэш, поэтому срезаем его.
func (c *Config) normalize() {
	origins := make([]string, 0, len(c.CORS.AllowedOrigins))
	for _, o := range c.CORS.AllowedOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORS.AllowedOrigins = origins
}

// validate - базовая валидация значений.
func (c *Config) validate() error {
	if c.DB.URL == "" {
		return fmt.Errorf("db.url is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be > 0")
	}

	// Диапазон bcrypt: MinCost=4, MaxCost=31.
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcrypt_cost must be in [4, 31]")
	}

	if c.HTTP.LoginRateLimit < 0 {
		return fmt.Errorf("http.login_rate_limit must be >= 0")
	}

	if c.HTTP.LoginRateLimit > 0 && c.HTTP.LoginRateWindow <= 0 {
		return fmt.Errorf("http.login_rate_window must be > 0")
	}

	return nil
}
