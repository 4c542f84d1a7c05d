package security

// In-memory client registry (replace with DB/config later)
type Client struct {
	ID      string
	Secret  string
	Perms   []string // e.g. {"cart.read","cart.write"}
	Enabled bool
}

var Clients = map[string]Client{
	"zold-web":       {ID: "zold-web", Secret: "web-secret", Perms: []string{"cart.read", "cart.write", "orders.write", "orders.read", "rates.read"}, Enabled: true},
	"zold-admin":     {ID: "zold-admin", Secret: "admin-secret", Perms: []string{"cart.read", "cart.write", "orders.write", "orders.read", "rates.read", "users.read"}, Enabled: true},
	"svc-payment-gw": {ID: "svc-payment-gw", Secret: "gw-secret", Perms: []string{"orders.write"}, Enabled: true},
}
