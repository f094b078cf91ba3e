package cmd

type Config struct {
	HTTPPort         string
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	DBSslMode        string
	CostReferenceCap float64
	GatewayURL       string
	GatewayAPIKey    string
	GatewayTimeout   string
}
