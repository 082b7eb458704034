package notify

// Config holds the mail transport settings of the notifier.
type Config struct {
	// Host is the SMTP relay host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the SMTP relay port.
	Port int `mapstructure:"port" default:"25"`
	// Username enables PLAIN authentication when set.
	Username string `mapstructure:"username" default:""`
	// Password is used together with Username.
	Password string `mapstructure:"password" default:""`
	// Sender is the From address of notifications.
	Sender string `mapstructure:"sender" default:"noreply@example.com"`
	// Subject is the subject line of notifications.
	Subject string `mapstructure:"subject" default:"Data comparison report"`
}
