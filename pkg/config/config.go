package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var appCnf *AppConfig
var dbTablePrefix string

type AppConfig struct {
	RDS    *redis.Client
	Logger *logrus.Logger

	RootWorkingDir string

	Client             ClientInfo         `yaml:"client"`
	LogSettings        LogSettings        `yaml:"log_settings"`
	DatabaseInfo       DatabaseInfo       `yaml:"database_info"`
	RedisInfo          RedisInfo          `yaml:"redis_info"`
	UploadFileSettings UploadFileSettings `yaml:"upload_file_settings"`
	JanitorSettings    JanitorSettings    `yaml:"janitor_settings"`
}

type ClientInfo struct {
	Port           int            `yaml:"port"`
	Debug          bool           `yaml:"debug"`
	ProxyHeader    string         `yaml:"proxy_header"`
	PrometheusConf PrometheusConf `yaml:"prometheus"`
}

type PrometheusConf struct {
	Enable      bool   `yaml:"enable"`
	MetricsPath string `yaml:"metrics_path"`
}

type LogSettings struct {
	LogFile    string  `yaml:"log_file"`
	MaxSize    int     `yaml:"max_size"`
	MaxBackups int     `yaml:"max_backups"`
	MaxAge     int     `yaml:"max_age"`
	LogLevel   *string `yaml:"log_level"`
}

const (
	DatabaseDriverMysql    = "mysql"
	DatabaseDriverPostgres = "postgres"
	DatabaseDriverFile     = "file"
)

type DatabaseInfo struct {
	DriverName      string          `yaml:"driver_name"`
	Host            string          `yaml:"host"`
	Port            int32           `yaml:"port"`
	Username        string          `yaml:"username"`
	Password        string          `yaml:"password"`
	DBName          string          `yaml:"db"`
	Prefix          string          `yaml:"prefix"`
	Charset         *string         `yaml:"charset"`
	Loc             *string         `yaml:"loc"`
	ConnMaxLifetime *time.Duration  `yaml:"conn_max_lifetime"`
	MaxOpenConns    *int            `yaml:"max_open_conns"`
	Replicas        []DatabaseExtra `yaml:"replicas"`

	// FilePath is only used by the file driver. The whole record set
	// lives in this single JSON document.
	FilePath string `yaml:"file_path"`
}

type DatabaseExtra struct {
	Host     string `yaml:"host"`
	Port     int32  `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type RedisInfo struct {
	Enabled           bool     `yaml:"enabled"`
	Host              string   `yaml:"host"`
	Username          string   `yaml:"username"`
	Password          string   `yaml:"password"`
	DBName            int      `yaml:"db"`
	UseTLS            bool     `yaml:"use_tls"`
	MasterName        string   `yaml:"sentinel_master_name"`
	SentinelUsername  string   `yaml:"sentinel_username"`
	SentinelPassword  string   `yaml:"sentinel_password"`
	SentinelAddresses []string `yaml:"sentinel_addresses"`
}

type UploadFileSettings struct {
	// Path is the directory where uploaded blobs are stored, flat.
	Path string `yaml:"path"`
	// MaxSize is the maximum allowed upload size in MB.
	MaxSize uint64 `yaml:"max_size"`
	// AllowedTypes limits uploads by detected mime extension, e.g. webm, mp4.
	// Empty list allows everything.
	AllowedTypes []string `yaml:"allowed_types"`
	// PublicPrefix is the URL prefix blobs are served under.
	PublicPrefix string `yaml:"public_prefix"`
}

type JanitorSettings struct {
	Enabled bool `yaml:"enabled"`
	// Interval between orphan sweeps.
	Interval time.Duration `yaml:"interval"`
	// MinAge a blob must reach before it can be considered orphaned,
	// so in-flight uploads are never swept.
	MinAge time.Duration `yaml:"min_age"`
}

// New validates the supplied config, fills defaults, prepares the upload
// directory and sets the config for global usage.
func New(cnf *AppConfig) (*AppConfig, error) {
	if cnf.Client.Port == 0 {
		cnf.Client.Port = 5000
	}

	if cnf.UploadFileSettings.Path == "" {
		cnf.UploadFileSettings.Path = "./uploads"
	}
	if cnf.UploadFileSettings.MaxSize == 0 {
		cnf.UploadFileSettings.MaxSize = 500
	}
	if cnf.UploadFileSettings.PublicPrefix == "" {
		cnf.UploadFileSettings.PublicPrefix = "/uploads"
	}

	p := cnf.UploadFileSettings.Path
	if strings.HasPrefix(p, "./") {
		p = filepath.Join(cnf.RootWorkingDir, p)
	}
	cnf.UploadFileSettings.Path = p
	if err := os.MkdirAll(p, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", p, err)
	}

	if cnf.DatabaseInfo.DriverName == "" {
		cnf.DatabaseInfo.DriverName = DatabaseDriverMysql
	}
	if cnf.DatabaseInfo.DriverName == DatabaseDriverFile && cnf.DatabaseInfo.FilePath == "" {
		cnf.DatabaseInfo.FilePath = filepath.Join(cnf.RootWorkingDir, "recordings.json")
	}

	if cnf.JanitorSettings.Enabled {
		if cnf.JanitorSettings.Interval == 0 {
			cnf.JanitorSettings.Interval = time.Minute * 15
		}
		if cnf.JanitorSettings.MinAge == 0 {
			cnf.JanitorSettings.MinAge = time.Hour
		}
	}

	if cnf.DatabaseInfo.Prefix != "" {
		dbTablePrefix = cnf.DatabaseInfo.Prefix
	}

	appCnf = cnf
	return cnf, nil
}

func GetConfig() *AppConfig {
	return appCnf
}

func FormatDBTable(table string) string {
	if dbTablePrefix != "" {
		return dbTablePrefix + table
	}
	return table
}
