// Command storefront is a terminal front-end for the marketplace: it wires
// the session, cart, vendor and admin flows to a remote commerce backend.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yarncraft/storefront/internal/adminreview"
	"github.com/yarncraft/storefront/internal/api"
	"github.com/yarncraft/storefront/internal/cart"
	"github.com/yarncraft/storefront/internal/checkout"
	"github.com/yarncraft/storefront/internal/cli"
	"github.com/yarncraft/storefront/internal/config"
	"github.com/yarncraft/storefront/internal/localstore"
	"github.com/yarncraft/storefront/internal/session"
	"github.com/yarncraft/storefront/internal/vendor"
)

const usage = `usage: storefront [-config file] <command> [args]

  login <email> <password>        log in
  register <name> <email> <pass> [customer|vendor]
                                  create an account (customer by default)
  logout                          log out
  whoami                          show the resolved identity

  products                        list the catalog
  product <id>                    show one product with live stock
  cart add <product-id> [qty]     add a product to the cart
  cart list                       show the cart
  cart set <product-id> <qty>     change a line quantity
  cart remove <product-id>        drop a line
  checkout <street> <city> <zip> <phone>
                                  place the order
  orders                          list order history

  vendor status                   show onboarding state
  vendor apply <shop> <desc>      submit the vendor application
  vendor dashboard                show stats and inventory
  vendor restock <id> <qty>       increase stock
  vendor add-product <name> <price> <category> [desc]
  vendor delete-product <id>      remove a product

  admin applications              list vendor applications
  admin approve <id>              approve an application
  admin reject <id>               reject an application
  admin stats                     per-vendor performance

  completion <bash|zsh|fish> [--install]
                                  generate shell completion
`

type app struct {
	cfg      config.Config
	log      zerolog.Logger
	session  *session.Store
	cart     *cart.Store
	client   *api.Client
	checkout *checkout.Coordinator
	vendor   *vendor.Machine
	admin    *adminreview.Queue
}

func main() {
	configPath := flag.String("config", "", "path to yaml config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		os.Exit(1)
	}

	a, err := newApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	a.session.Resolve(ctx)

	if err := a.run(ctx, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		os.Exit(1)
	}
}

func newApp(cfg config.Config) (*app, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	var local localstore.Store
	if cfg.RedisAddr != "" {
		local, err = localstore.NewRedis(context.Background(), cfg.RedisAddr)
	} else {
		local, err = localstore.NewFile(cfg.StateDir)
	}
	if err != nil {
		return nil, err
	}

	sess := session.New(local, logger)
	client, err := api.New(api.Config{
		BaseURL:    cfg.APIBaseURL,
		Tokens:     sess,
		HTTPClient: &http.Client{Timeout: cfg.RequestTimeout()},
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	sess.Bind(client)

	cartStore := cart.New(local, logger)

	return &app{
		cfg:      cfg,
		log:      logger,
		session:  sess,
		cart:     cartStore,
		client:   client,
		checkout: checkout.New(cartStore, sess, client, logger),
		vendor:   vendor.NewMachine(client, logger),
		admin:    adminreview.New(client, confirmPrompt, logger),
	}, nil
}

func (a *app) run(ctx context.Context, args []string) error {
	switch args[0] {
	case "login":
		return a.cmdLogin(ctx, args[1:])
	case "register":
		return a.cmdRegister(ctx, args[1:])
	case "logout":
		a.session.Logout()
		cli.Success("Logged out.")
		return nil
	case "whoami":
		return a.cmdWhoami()
	case "products":
		return a.cmdProducts(ctx)
	case "product":
		return a.cmdProduct(ctx, args[1:])
	case "cart":
		return a.cmdCart(ctx, args[1:])
	case "checkout":
		return a.cmdCheckout(ctx, args[1:])
	case "orders":
		return a.cmdOrders(ctx)
	case "vendor":
		return a.cmdVendor(ctx, args[1:])
	case "admin":
		return a.cmdAdmin(ctx, args[1:])
	case "completion":
		return cmdCompletion(args[1:])
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// gate checks route access for the current identity and reports the
// redirect target on denial.
func (a *app) gate(route string) error {
	decision := a.session.CanAccess(route)
	if !decision.Allowed {
		return fmt.Errorf("access denied, redirecting to %s", decision.Redirect)
	}
	return nil
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: login <email> <password>")
	}
	if err := a.session.Login(ctx, args[0], args[1]); err != nil {
		return fmt.Errorf("login failed: %s", api.ServerMessage(err, "server error"))
	}
	id, _ := a.session.Identity()
	cli.Success(fmt.Sprintf("Welcome back, %s (%s).", id.Name, id.Role))
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	if len(args) < 3 || len(args) > 4 {
		return fmt.Errorf("usage: register <name> <email> <password> [customer|vendor]")
	}
	role := api.RoleCustomer
	if len(args) == 4 {
		switch strings.ToLower(args[3]) {
		case "customer":
			role = api.RoleCustomer
		case "vendor":
			role = api.RoleVendor
		default:
			return fmt.Errorf("role must be customer or vendor")
		}
	}
	if err := a.session.Register(ctx, args[0], args[1], args[2], role); err != nil {
		return fmt.Errorf("registration failed: %s", api.ServerMessage(err, "server error"))
	}
	if role == api.RoleVendor {
		cli.Success("Account created. Apply with 'vendor apply' to open your shop.")
	} else {
		cli.Success("Account created.")
	}
	return nil
}

func (a *app) cmdWhoami() error {
	id, ok := a.session.Identity()
	if !ok {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("%s <%s> role=%s id=%d\n", id.Name, id.Email, id.Role, id.ID)
	return nil
}

func (a *app) cmdProducts(ctx context.Context) error {
	products, err := a.client.Products(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		fmt.Printf("%4d  %-30s $%8.2f  %s\n", p.ID, p.Name, p.Price, p.VendorName)
	}
	if len(products) == 0 {
		fmt.Println("No products.")
	}
	return nil
}

func (a *app) cmdProduct(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: product <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("product id must be a number")
	}
	product, err := a.client.Product(ctx, id)
	if err != nil {
		return err
	}
	// Stock is best-effort here: an inventory error renders as sold out,
	// matching the product page behavior.
	stock := 0
	if avail, err := a.client.Availability(ctx, id); err == nil {
		stock = avail.AvailableStock
	}
	fmt.Printf("%s — $%.2f (%s)\n%s\n", product.Name, product.Price, product.VendorName, product.Description)
	if stock > 0 {
		fmt.Println(cli.Colorize(fmt.Sprintf("%d in stock", stock), cli.ColorGreen))
	} else {
		fmt.Println(cli.Colorize("Sold out", cli.ColorRed))
	}
	return nil
}

func (a *app) cmdCart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: cart <add|list|set|remove> ...")
	}
	switch args[0] {
	case "add":
		if len(args) < 2 || len(args) > 3 {
			return fmt.Errorf("usage: cart add <product-id> [qty]")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("product id must be a number")
		}
		qty := 1
		if len(args) == 3 {
			if qty, err = strconv.Atoi(args[2]); err != nil {
				return fmt.Errorf("quantity must be a number")
			}
		}
		product, err := a.client.Product(ctx, id)
		if err != nil {
			return err
		}
		line, err := a.checkout.AddToCart(product, qty)
		if err != nil {
			if err == checkout.ErrLoginRequired {
				return fmt.Errorf("please log in first, redirecting to %s", session.RedirectLogin)
			}
			return err
		}
		fmt.Printf("Added %d x %s to cart (now %d in cart).\n", qty, line.Name, line.Quantity)
		return nil

	case "list":
		if err := a.gate("/cart"); err != nil {
			return err
		}
		lines := a.cart.Lines()
		if len(lines) == 0 {
			fmt.Println("Cart is empty.")
			return nil
		}
		for _, line := range lines {
			fmt.Printf("%4d  %-30s %3d x $%8.2f = $%8.2f\n",
				line.ProductID, line.Name, line.Quantity, line.UnitPrice, line.Subtotal())
		}
		fmt.Printf("Total: $%.2f\n", a.cart.Total())
		return nil

	case "set":
		if len(args) != 3 {
			return fmt.Errorf("usage: cart set <product-id> <qty>")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("product id must be a number")
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("quantity must be a number")
		}
		a.cart.SetQuantity(id, qty)
		return nil

	case "remove":
		if len(args) != 2 {
			return fmt.Errorf("usage: cart remove <product-id>")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("product id must be a number")
		}
		a.cart.Remove(id)
		return nil

	default:
		return fmt.Errorf("unknown cart command %q", args[0])
	}
}

func (a *app) cmdCheckout(ctx context.Context, args []string) error {
	if err := a.gate("/checkout"); err != nil {
		return err
	}
	if len(args) != 4 {
		return fmt.Errorf("usage: checkout <street> <city> <zip> <phone>")
	}
	spinner := cli.NewSpinner("Placing order")
	spinner.Start()
	order, err := a.checkout.Submit(ctx, checkout.Shipping{
		Street: args[0],
		City:   args[1],
		Zip:    args[2],
		Phone:  args[3],
	})
	if err != nil {
		spinner.Stop()
		return err
	}
	spinner.Succeed(fmt.Sprintf("Order %d placed, total $%.2f.", order.ID, order.TotalAmount))
	return nil
}

func (a *app) cmdOrders(ctx context.Context) error {
	if err := a.gate("/orders"); err != nil {
		return err
	}
	orders, err := a.client.Orders(ctx)
	if err != nil {
		return err
	}
	for _, o := range orders {
		fmt.Printf("%4d  $%8.2f  %-10s %s\n", o.ID, o.TotalAmount, o.Status, o.ShippingAddress)
	}
	if len(orders) == 0 {
		fmt.Println("No orders yet.")
	}
	return nil
}

func (a *app) cmdVendor(ctx context.Context, args []string) error {
	if err := a.gate("/vendor"); err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: vendor <status|apply|dashboard|restock|add-product|delete-product> ...")
	}

	state := a.vendor.Resolve(ctx)
	if notice := a.vendor.TakeNotice(); notice != "" {
		cli.Warning(notice)
	}

	switch args[0] {
	case "status":
		fmt.Printf("Application state: %s\n", state)
		return nil

	case "apply":
		if len(args) != 3 {
			return fmt.Errorf("usage: vendor apply <shop-name> <description>")
		}
		if err := a.vendor.Submit(ctx, args[1], args[2]); err != nil {
			return err
		}
		fmt.Println("Application submitted. Please wait for admin approval.")
		return nil

	case "dashboard":
		if state != vendor.StateApproved {
			fmt.Printf("Application state: %s — dashboard unavailable.\n", state)
			return nil
		}
		if stats, ok := a.vendor.Stats(); ok {
			fmt.Printf("Revenue $%.2f | Sold %d | Active products %d | Low stock %d\n",
				stats.PotentialRevenue, stats.TotalSold, stats.ActiveProducts, stats.LowStockCount)
		}
		for _, item := range a.vendor.Inventory() {
			fmt.Printf("%4d  %-30s $%8.2f  stock %4d  %s\n",
				item.ProductID, item.ProductName, item.UnitPrice, item.StockQuantity, item.Status)
		}
		return nil

	case "restock":
		if len(args) != 3 {
			return fmt.Errorf("usage: vendor restock <product-id> <qty>")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("product id must be a number")
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("quantity must be a number")
		}
		if err := a.vendor.Restock(ctx, id, qty); err != nil {
			return err
		}
		fmt.Println("Stock updated.")
		return nil

	case "add-product":
		if len(args) < 4 {
			return fmt.Errorf("usage: vendor add-product <name> <price> <category> [description]")
		}
		price, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("price must be a number")
		}
		description := ""
		if len(args) > 4 {
			description = strings.Join(args[4:], " ")
		}
		created, err := a.vendor.AddProduct(ctx, api.NewProduct{
			Name:        args[1],
			Price:       price,
			Category:    args[3],
			Description: description,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Product %d created.\n", created.ID)
		return nil

	case "delete-product":
		if len(args) != 2 {
			return fmt.Errorf("usage: vendor delete-product <product-id>")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("product id must be a number")
		}
		return a.vendor.DeleteProduct(ctx, id, confirmPrompt)

	default:
		return fmt.Errorf("unknown vendor command %q", args[0])
	}
}

func (a *app) cmdAdmin(ctx context.Context, args []string) error {
	if err := a.gate("/admin"); err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: admin <applications|approve|reject|stats> ...")
	}

	switch args[0] {
	case "applications":
		apps, err := a.admin.Fetch(ctx)
		if err != nil {
			if err == adminreview.ErrNotAuthorized {
				return fmt.Errorf("access denied, redirecting to %s", session.RedirectHome)
			}
			return err
		}
		for _, app := range apps {
			fmt.Printf("%4d  %-20s %-10s %s <%s>\n",
				app.ID, app.ShopName, app.Status, app.User.Name, app.User.Email)
		}
		if len(apps) == 0 {
			fmt.Println("No applications found.")
		}
		return nil

	case "approve", "reject":
		if len(args) != 2 {
			return fmt.Errorf("usage: admin %s <application-id>", args[0])
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("application id must be a number")
		}
		if args[0] == "approve" {
			return a.admin.Approve(ctx, id)
		}
		return a.admin.Reject(ctx, id)

	case "stats":
		stats, err := a.admin.VendorStats(ctx)
		if err != nil {
			return err
		}
		for _, row := range stats {
			fmt.Printf("%-20s %-20s products %4d  sold %5d  $%10.2f\n",
				row.ShopName, row.VendorName, row.TotalProducts, row.TotalSold, row.TotalRevenue)
		}
		return nil

	default:
		return fmt.Errorf("unknown admin command %q", args[0])
	}
}

func cmdCompletion(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: completion <bash|zsh|fish> [--install]")
	}
	if len(args) > 1 && args[1] == "--install" {
		return cli.InstallCompletion(args[0])
	}
	return cli.WriteCompletion(os.Stdout, args[0])
}

func confirmPrompt(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
