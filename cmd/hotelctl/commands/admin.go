package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"hotelcms/internal/client"
)

var (
	// Admin flags
	username string
	password string
	totpCode string
)

// loginCmd checks admin credentials
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Check admin credentials",
	Long: `Sign in and report the admin account. The session is not kept between
invocations; every admin command signs in on its own.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, sess, err := adminClient(cmd)
		if err != nil {
			return err
		}
		if jsonOutput {
			sess.CSRFToken = ""
			return printJSON(cmd.OutOrStdout(), sess)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s (two-factor: %t)\n", sess.Username, sess.TOTPEnabled)
		return nil
	},
}

// deleteCategoryCmd removes a category
var deleteCategoryCmd = &cobra.Command{
	Use:   "delete-category <id>",
	Short: "Delete a room category with its images and prices",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		c, _, err := adminClient(cmd)
		if err != nil {
			return err
		}
		if err := c.DeleteCategory(cmd.Context(), id); err != nil {
			return fmt.Errorf("delete category %d: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted category %d\n", id)
		return nil
	},
}

// deleteGalleryCmd removes a gallery item
var deleteGalleryCmd = &cobra.Command{
	Use:   "delete-gallery <id>",
	Short: "Delete a gallery item and its file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		c, _, err := adminClient(cmd)
		if err != nil {
			return err
		}
		if err := c.DeleteGalleryItem(cmd.Context(), id); err != nil {
			return fmt.Errorf("delete gallery item %d: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted gallery item %d\n", id)
		return nil
	},
}

// uploadCmd stores a file
var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload an image or video and print its URL and key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		c, _, err := adminClient(cmd)
		if err != nil {
			return err
		}
		obj, err := c.Upload(cmd.Context(), filepath.Base(args[0]), data)
		if err != nil {
			return fmt.Errorf("upload %s: %w", args[0], err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), obj)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "url: %s\nkey: %s\n", obj.URL, obj.Key)
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{loginCmd, deleteCategoryCmd, deleteGalleryCmd, uploadCmd} {
		cmd.Flags().StringVarP(&username, "username", "u", os.Getenv("HOTELCTL_USERNAME"), "Admin username")
		cmd.Flags().StringVarP(&password, "password", "p", os.Getenv("HOTELCTL_PASSWORD"), "Admin password")
		cmd.Flags().StringVar(&totpCode, "code", "", "Two-factor code, when enabled")
		rootCmd.AddCommand(cmd)
	}
}

// adminClient builds a client and signs in with the admin flags.
func adminClient(cmd *cobra.Command) (*client.Client, *client.Session, error) {
	if username == "" || password == "" {
		return nil, nil, fmt.Errorf("--username and --password are required")
	}
	c, err := newClient()
	if err != nil {
		return nil, nil, err
	}
	sess, err := c.Login(cmd.Context(), username, password, totpCode)
	if err != nil {
		return nil, nil, fmt.Errorf("login: %w", err)
	}
	return c, sess, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
