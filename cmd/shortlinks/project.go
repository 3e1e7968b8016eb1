package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joestump/shortlinks/internal/store"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects, their members, domains, and tags",
	}
	cmd.AddCommand(newProjectCreateCmd())
	cmd.AddCommand(newProjectAddMemberCmd())
	cmd.AddCommand(newProjectAddDomainCmd())
	cmd.AddCommand(newProjectVerifyDomainCmd())
	cmd.AddCommand(newProjectAddTagCmd())
	cmd.AddCommand(newProjectShowCmd())
	return cmd
}

func newProjectCreateCmd() *cobra.Command {
	var name, slug, ownerEmail string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project owned by a user, creating the user if needed",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			owner, err := store.NewUserStore(e.db).GetOrCreate(cmd.Context(), ownerEmail, "")
			if err != nil {
				return err
			}
			if name == "" {
				name = slug
			}
			p, err := store.NewProjectStore(e.db, e.cfg.Projects.CacheTTL).Create(cmd.Context(), name, slug, owner.ID)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created project %s (%s) owned by %s\n", p.Slug, p.ID, owner.Email)
			return err
		},
	}
	cmd.Flags().StringVar(&slug, "slug", "", "project slug used in ?projectSlug=")
	cmd.Flags().StringVar(&name, "name", "", "display name (defaults to the slug)")
	cmd.Flags().StringVar(&ownerEmail, "owner-email", "", "email of the owning user")
	_ = cmd.MarkFlagRequired("slug")
	_ = cmd.MarkFlagRequired("owner-email")
	return cmd
}

func newProjectAddMemberCmd() *cobra.Command {
	var slug, email, role string
	cmd := &cobra.Command{
		Use:   "add-member",
		Short: "Add a user to a project, creating the user if needed",
		RunE: func(cmd *cobra.Command, args []string) error {
			if role != store.RoleOwner && role != store.RoleMember {
				return fmt.Errorf("--role must be %s or %s", store.RoleOwner, store.RoleMember)
			}
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			projects := store.NewProjectStore(e.db, e.cfg.Projects.CacheTTL)
			p, err := projects.GetBySlug(cmd.Context(), slug)
			if err != nil {
				return fmt.Errorf("project %q: %w", slug, err)
			}
			u, err := store.NewUserStore(e.db).GetOrCreate(cmd.Context(), email, "")
			if err != nil {
				return err
			}
			if err := projects.AddMember(cmd.Context(), p.ID, u.ID, role); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "added %s to %s as %s\n", u.Email, p.Slug, role)
			return err
		},
	}
	cmd.Flags().StringVar(&slug, "project", "", "project slug")
	cmd.Flags().StringVar(&email, "email", "", "email of the user to add")
	cmd.Flags().StringVar(&role, "role", store.RoleMember, "member role: owner or member")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newProjectAddDomainCmd() *cobra.Command {
	var slug, domain string
	var verified bool
	cmd := &cobra.Command{
		Use:   "add-domain",
		Short: "Register a custom short link domain to a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			p, err := store.NewProjectStore(e.db, e.cfg.Projects.CacheTTL).GetBySlug(cmd.Context(), slug)
			if err != nil {
				return fmt.Errorf("project %q: %w", slug, err)
			}
			d, err := store.NewDomainStore(e.db).Add(cmd.Context(), p.ID, domain, verified)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "registered %s to %s\n", d.Slug, p.Slug)
			return err
		},
	}
	cmd.Flags().StringVar(&slug, "project", "", "project slug")
	cmd.Flags().StringVar(&domain, "domain", "", "domain name, e.g. go.example.com")
	cmd.Flags().BoolVar(&verified, "verified", true, "mark the domain as verified")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("domain")
	return cmd
}

func newProjectAddTagCmd() *cobra.Command {
	var slug, name, color string
	cmd := &cobra.Command{
		Use:   "add-tag",
		Short: "Create a tag that links in the project can reference by id",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			p, err := store.NewProjectStore(e.db, e.cfg.Projects.CacheTTL).GetBySlug(cmd.Context(), slug)
			if err != nil {
				return fmt.Errorf("project %q: %w", slug, err)
			}
			t, err := store.NewTagStore(e.db).Create(cmd.Context(), p.ID, name, color)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created tag %s (%s, %s)\n", t.ID, t.Name, t.Color)
			return err
		},
	}
	cmd.Flags().StringVar(&slug, "project", "", "project slug")
	cmd.Flags().StringVar(&name, "name", "", "tag name")
	cmd.Flags().StringVar(&color, "color", "", "tag color (defaults to blue)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectVerifyDomainCmd() *cobra.Command {
	var slug, domain string
	cmd := &cobra.Command{
		Use:   "verify-domain",
		Short: "Mark a project domain as verified so links can be created on it",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			p, err := store.NewProjectStore(e.db, e.cfg.Projects.CacheTTL).GetBySlug(cmd.Context(), slug)
			if err != nil {
				return fmt.Errorf("project %q: %w", slug, err)
			}
			name, err := store.NormalizeDomain(domain)
			if err != nil {
				return err
			}
			domains := store.NewDomainStore(e.db)
			d, err := domains.GetBySlug(cmd.Context(), name)
			if err != nil || d.ProjectID != p.ID {
				return fmt.Errorf("domain %q is not registered to %s", name, p.Slug)
			}
			if err := domains.SetVerified(cmd.Context(), d.ID, true); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "verified %s\n", d.Slug)
			return err
		},
	}
	cmd.Flags().StringVar(&slug, "project", "", "project slug")
	cmd.Flags().StringVar(&domain, "domain", "", "domain name")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("domain")
	return cmd
}

func newProjectShowCmd() *cobra.Command {
	var slug string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a project with its domains and tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := cmd.Context()
			p, err := store.NewProjectStore(e.db, e.cfg.Projects.CacheTTL).GetBySlug(ctx, slug)
			if err != nil {
				return fmt.Errorf("project %q: %w", slug, err)
			}
			domains, err := store.NewDomainStore(e.db).ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			tags, err := store.NewTagStore(e.db).ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "project %s (%s) %s\n", p.Slug, p.ID, p.Name)
			for _, d := range domains {
				state := "unverified"
				if d.Verified {
					state = "verified"
				}
				fmt.Fprintf(out, "domain %s %s\n", d.Slug, state)
			}
			for _, t := range tags {
				fmt.Fprintf(out, "tag %s %s %s\n", t.ID, t.Name, t.Color)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&slug, "project", "", "project slug")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}
