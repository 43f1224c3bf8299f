package config

type Config struct {
	// Bank is the registered bank statements are read as when none is given
	Bank string `json:"bank"`
	// Timezone statement dates are read in, an IANA name such as Asia/Kolkata
	Timezone string `json:"timezone"`
	// Date to import transactions after, 2006-01-02
	ImportAfterDate string `json:"importAfterDate"`
	// ImportDir is scanned for statement files by the watch command
	ImportDir       string `json:"importDir"`
	UpdateFrequency string `json:"updateFrequency"`
	// ColumnTranslation maps a canonical field to the header it is read from
	ColumnTranslation map[string]string `json:"columnTranslation"`

	SQL    SQLConfig    `json:"sql"`
	Influx InfluxConfig `json:"influx"`
	Server ServerConfig `json:"server"`
}

type SQLConfig struct {
	// Driver is postgres or sqlite
	Driver            string `json:"driver"`
	Database          string `json:"database"`
	TransactionsTable string `json:"transactionsTable"`
	// Reclassify updates the classification of already stored rows instead of skipping them
	Reclassify bool `json:"reclassify"`
}

type InfluxConfig struct {
	Database    string `json:"database"`
	Measurement string `json:"measurement"`
}

type ServerConfig struct {
	Address     string `json:"address"`
	BodyLimitMB int    `json:"bodyLimitMB"`
}

type Secrets struct {
	Influx InfluxSecrets `json:"influx"`
	SQL    SqlSecrets    `json:"sql"`

	// Alternative to the SQL secrets, designed to be used with the heroku env variable
	DatabaseURL string `json:"databaseUrl" env:"DATABASE_URL"`
}

type InfluxSecrets struct {
	InfluxEndpoint string `json:"endpoint" env:"INFLUX_ENDPOINT"`
	InfluxUsername string `json:"username" env:"INFLUX_USERNAME"`
	InfluxPassword string `json:"password" env:"INFLUX_PASSWORD"`
}

type SqlSecrets struct {
	SqlHost     string `json:"host" env:"SQL_HOST"`
	SqlUsername string `json:"username" env:"SQL_USERNAME"`
	SqlPassword string `json:"password" env:"SQL_PASSWORD"`
}
