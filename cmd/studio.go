package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ridoystarlord/visusql/schema"
	"github.com/ridoystarlord/visusql/studio"
)

var studioFile string

var studioCmd = &cobra.Command{
	Use:   "studio",
	Short: "Launch the HTTP schema editor",
	Long: `Launch visusql Studio - an HTTP API that a canvas UI drives to edit a design.

The studio owns a single design for the life of the process:
- Create, edit and delete tables and columns
- Connect tables with relationships
- Read the generated SQL after every change
- Download SQL or JSON exports and a Mermaid ERD

Start from an empty design, or preload one with --file.
The API listens on http://localhost:8080 by default.`,
	Run: func(cmd *cobra.Command, args []string) {
		design := schema.New()
		if studioFile != "" {
			loaded, err := loadDesign(studioFile)
			if err != nil {
				fmt.Println("❌ Loading design:", err)
				os.Exit(1)
			}
			design = loaded
		}

		port := viper.GetString("studio.port")
		if port == "" {
			port = "8080"
		}

		gin.SetMode(gin.ReleaseMode)
		server := studio.NewServer(design, studio.Config{
			AllowedOrigins: viper.GetStringSlice("studio.allowed_origins"),
			AccessLog:      true,
		})

		srv := &http.Server{
			Addr:         ":" + port,
			Handler:      server.Router(),
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		}

		fmt.Printf("🚀 Starting visusql Studio on http://localhost:%s\n", port)
		fmt.Println("Press Ctrl+C to stop the server")

		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("http server error: %s", err)
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down server gracefully ...")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Println("Server Shutdown:", err)
		}
		log.Println("Server exiting")
	},
}

func init() {
	studioCmd.Flags().StringVarP(&studioFile, "file", "f", "", "Design file to preload")
	studioCmd.Flags().String("port", "8080", "Port to run the web server on")
	studioCmd.Flags().StringSlice("allowed-origins", []string{"*"}, "Origins allowed to call the API")
	viper.BindPFlag("studio.port", studioCmd.Flags().Lookup("port"))
	viper.BindPFlag("studio.allowed_origins", studioCmd.Flags().Lookup("allowed-origins"))
}
