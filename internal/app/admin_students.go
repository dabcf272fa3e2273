package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/util"
)

func newAdminStudentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "students",
		Aliases: []string{"mahasiswa"},
		Short:   "Manage students and their accounts",
	}
	cmd.AddCommand(
		newAdminStudentsListCmd(),
		newAdminStudentAddCmd(),
		newAdminStudentEditCmd(),
		newAdminStudentDeleteCmd(),
	)
	return cmd
}

var studentStatuses = []string{api.StudentActive, api.StudentInactive, api.StudentGraduate}

func validStudentStatus(s string) bool {
	for _, v := range studentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func newAdminStudentsListCmd() *cobra.Command {
	var (
		search string
		page   int
		size   int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List students",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAdmin(); err != nil {
				return err
			}
			q := pageQuery(page, size)
			q.Search = search
			res, err := client.Students(cmd.Context(), q)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(res.Content)
			}
			if len(res.Content) == 0 {
				warn("No students found.")
				return nil
			}
			for _, s := range res.Content {
				status := color.GreenString("%-12s", s.Status)
				if s.Status != api.StudentActive {
					status = color.HiBlackString("%-12s", s.Status)
				}
				fmt.Printf("  %-38s %-12s %s %-24s %s\n",
					color.WhiteString(string(s.ID)),
					color.CyanString(s.NIM),
					status,
					truncate(s.Nama, 24),
					color.HiBlackString(s.Jurusan))
			}
			printPageFooter(res, "students")
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Search name or NIM")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&size, "size", 0, "Page size (default catalog.page_size)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print students as JSON")
	return cmd
}

func newAdminStudentAddCmd() *cobra.Command {
	var in api.NewStudent

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a student and create their login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAdmin(); err != nil {
				return err
			}
			if in.Password == "" {
				in.Password = os.Getenv("PERPUSCTL_STUDENT_PASSWORD")
			}
			if util.Interactive(flagNoInteractive) {
				if in.Nama == "" {
					in.Nama = prompt("Name", "")
				}
				if in.NIM == "" {
					in.NIM = prompt("NIM", "")
				}
				if in.Jurusan == "" {
					in.Jurusan = prompt("Major", "")
				}
				if in.Username == "" {
					in.Username = prompt("Username", in.NIM)
				}
				if in.Password == "" {
					in.Password = prompt("Initial password", "")
				}
			}

			var missing []string
			for _, f := range []struct{ name, v string }{
				{"--name", in.Nama}, {"--nim", in.NIM}, {"--major", in.Jurusan},
				{"--username", in.Username}, {"--password", in.Password},
			} {
				if strings.TrimSpace(f.v) == "" {
					missing = append(missing, f.name)
				}
			}
			if len(missing) > 0 {
				return fmt.Errorf("missing %s: %w", strings.Join(missing, ", "), api.ErrValidation)
			}

			s, err := client.CreateStudent(cmd.Context(), in)
			if err != nil {
				return err
			}
			ok("Registered %s (%s)", s.Nama, s.NIM)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Nama, "name", "", "Full name")
	cmd.Flags().StringVar(&in.NIM, "nim", "", "Student number")
	cmd.Flags().StringVar(&in.Jurusan, "major", "", "Major (jurusan)")
	cmd.Flags().StringVar(&in.Alamat, "address", "", "Address")
	cmd.Flags().StringVar(&in.PhoneNumber, "phone", "", "Phone number")
	cmd.Flags().StringVar(&in.Email, "email", "", "Email")
	cmd.Flags().StringVar(&in.Username, "username", "", "Login username")
	cmd.Flags().StringVar(&in.Password, "password", "", "Initial password (or PERPUSCTL_STUDENT_PASSWORD)")
	return cmd
}

func newAdminStudentEditCmd() *cobra.Command {
	var in api.StudentUpdate

	cmd := &cobra.Command{
		Use:   "edit <student-id>",
		Short: "Update a student's details or status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAdmin(); err != nil {
				return err
			}
			in.ID = api.ID(args[0])
			if in.Status != "" {
				in.Status = strings.ToUpper(in.Status)
				if !validStudentStatus(in.Status) {
					return fmt.Errorf("unknown status %q (want %s): %w", in.Status, strings.Join(studentStatuses, ", "), api.ErrValidation)
				}
			}
			if in == (api.StudentUpdate{ID: in.ID}) {
				warn("Nothing to change; pass at least one field flag.")
				return nil
			}
			s, err := client.UpdateStudent(cmd.Context(), in)
			if err != nil {
				return err
			}
			ok("Updated %s (%s)", s.Nama, s.NIM)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Nama, "name", "", "Full name")
	cmd.Flags().StringVar(&in.NIM, "nim", "", "Student number")
	cmd.Flags().StringVar(&in.Jurusan, "major", "", "Major (jurusan)")
	cmd.Flags().StringVar(&in.Alamat, "address", "", "Address")
	cmd.Flags().StringVar(&in.PhoneNumber, "phone", "", "Phone number")
	cmd.Flags().StringVar(&in.Status, "status", "", "AKTIF, TIDAK_AKTIF or LULUS")
	return cmd
}

func newAdminStudentDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <student-id>",
		Short: "Delete a student and their account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAdmin(); err != nil {
				return err
			}
			s, err := client.Student(cmd.Context(), api.ID(args[0]))
			if err != nil {
				return err
			}
			if !yes {
				fmt.Printf("Student: %s (%s)\n", s.Nama, s.NIM)
				if !confirm(color.YellowString("Delete this student and their login?")) {
					warn("Canceled.")
					return nil
				}
			}
			if err := client.DeleteStudent(cmd.Context(), s.AccountID()); err != nil {
				return err
			}
			ok("Deleted %s", s.Nama)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}
