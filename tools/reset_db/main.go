package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"social-system/config"
	"social-system/internal/repository/gormrepo"
	"social-system/internal/repository/mongorepo"
	dbPkg "social-system/pkg/db"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
	)
	cmd := &cobra.Command{
		Use:   "reset_db",
		Short: "Clear all social-system data, keeping the schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.LoadConfigFrom(configPath)
			out := cmd.OutOrStdout()

			if !yes && !confirm(cmd.InOrStdin(), out, cfg.Database.Driver) {
				fmt.Fprintln(out, "Operation cancelled")
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			switch cfg.Database.Driver {
			case config.DriverMySQL:
				return resetMySQL(ctx, out, cfg.Database)
			case config.DriverMongo:
				return resetMongo(ctx, out, cfg.Mongo)
			default:
				return fmt.Errorf("nothing to reset for driver %q", cfg.Database.Driver)
			}
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "config/config.yaml", "path to the YAML config file")
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}

func confirm(in io.Reader, out io.Writer, driver string) bool {
	fmt.Fprintf(out, "WARNING: This operation will CLEAR ALL DATA in the %s backend!\n", driver)
	fmt.Fprint(out, "Type 'YES' to confirm: ")
	line, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(line) == "YES"
}

func resetMySQL(ctx context.Context, out io.Writer, cfg config.DatabaseConfig) error {
	db, err := sql.Open("mysql", dbPkg.BuildDSN(cfg))
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}
	fmt.Fprintf(out, "Database: %s\n", cfg.Database)

	// 关闭外键检查需要同一连接
	conn, err := db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS=0"); err != nil {
		return err
	}
	defer conn.ExecContext(context.Background(), "SET FOREIGN_KEY_CHECKS=1")

	for _, table := range gormrepo.Tables() {
		fmt.Fprintf(out, "Clearing table %s... ", table)
		if _, err := conn.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE `%s`", table)); err != nil {
			fmt.Fprintf(out, "Failed: %v\n", err)
			continue
		}
		fmt.Fprintln(out, "Success")
	}

	fmt.Fprintln(out, "Database reset completed, auto-increment IDs reset to 1")
	return nil
}

func resetMongo(ctx context.Context, out io.Writer, cfg config.MongoConfig) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return fmt.Errorf("mongo connection failed: %w", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.Database)
	for _, name := range mongorepo.Collections() {
		fmt.Fprintf(out, "Dropping collection %s... ", name)
		if err := db.Collection(name).Drop(ctx); err != nil {
			fmt.Fprintf(out, "Failed: %v\n", err)
			continue
		}
		fmt.Fprintln(out, "Success")
	}

	// 重建唯一索引，服务下次启动前也能保证邮箱唯一
	if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	fmt.Fprintln(out, "Database reset completed")
	return nil
}
