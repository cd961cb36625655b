package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-entityform/pkg/controller"
	"github.com/goliatone/go-entityform/pkg/gateway"
	"github.com/goliatone/go-entityform/pkg/gateway/httpgw"
	"github.com/goliatone/go-entityform/pkg/i18n"
	"github.com/goliatone/go-entityform/pkg/lookup"
	"github.com/goliatone/go-entityform/pkg/media"
	"github.com/goliatone/go-entityform/pkg/model"
	"github.com/goliatone/go-entityform/pkg/prompt"
	"github.com/goliatone/go-entityform/pkg/route"
)

func newEditCmd() *cobra.Command {
	var remote string
	cmd := &cobra.Command{
		Use:   "edit <collection> [id]",
		Short: "Create an entity, or edit the one with the given id",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			reg, err := loadRegistry(cfg)
			if err != nil {
				return err
			}

			var store gateway.Store
			if remote != "" {
				store = httpgw.New(remote)
			} else {
				local, closeStore, err := openStore(ctx, cfg)
				if err != nil {
					return err
				}
				defer func() {
					if err := closeStore(); err != nil {
						logger.Error("edit: close store:", err)
					}
				}()
				if err := seedReferenceData(ctx, reg, local); err != nil {
					return err
				}
				store = local
			}

			translator, err := newTranslator()
			if err != nil {
				return err
			}

			var id string
			if len(args) > 1 {
				id = args[1]
			}
			out := cmd.OutOrStdout()
			path, err := runEdit(ctx, editEnv{
				Registry:   reg,
				Store:      store,
				Driver:     prompt.NewSurvey(out),
				Media:      media.NewTerminal(cfg.Media.MobileMaxColumns),
				Translator: translator,
				Locale:     cfg.Locale,
				PageSize:   cfg.Lookup.PageSize,
			}, args[0], id)
			if err != nil {
				return err
			}
			if path == "" {
				fmt.Fprintln(out, "Not saved.")
				return nil
			}
			fmt.Fprintf(out, "Saved %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&remote, "remote", "", "Base URL of an entityform server to edit through")
	return cmd
}

// editEnv carries the collaborators of one terminal edit session.
type editEnv struct {
	Registry   *model.Registry
	Store      gateway.Store
	Driver     prompt.Driver
	Media      media.Matcher
	Translator i18n.Translator
	Locale     string
	PageSize   int
}

// runEdit drives a controller through one create or edit session and returns
// the location after saving, or "" when the user did not save.
func runEdit(ctx context.Context, env editEnv, collection, id string) (string, error) {
	desc, ok := env.Registry.Descriptor(collection)
	if !ok {
		return "", fmt.Errorf("edit: unknown collection %q", collection)
	}

	var loadErr error
	history := route.NewHistory(nil)
	ctrl := controller.New(controller.Deps{
		Descriptor: desc,
		Gateway:    env.Store.Collection(collection),
		Route:      history,
		Location:   history,
		Dialog:     lookup.NewTerminal(env.Store, lookup.WithDriver(env.Driver), lookup.WithPageSize(env.PageSize)),
		Media:      env.Media,
		Translator: env.Translator,
	},
		controller.WithOnError(func(err error) { loadErr = err }),
		controller.WithOnBreakpointChange(func(mobile bool) {
			logger.Verbose("edit: mobile layout", mobile)
		}),
	)
	defer ctrl.Dispose()

	initCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	ctrl.Init(initCtx)
	history.Navigate(startPath(collection, id))
	history.Close()
	ctrl.Wait()
	if loadErr != nil {
		return "", loadErr
	}

	if subtitle, err := ctrl.Subtitle(env.Locale); err == nil {
		if err := env.Driver.Info(ctx, subtitle); err != nil {
			return "", err
		}
	}

	f := ctrl.Form()
	for _, name := range f.Names() {
		err := promptControl(ctx, env, ctrl, desc, name)
		if errors.Is(err, prompt.ErrAborted) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
	}

	if errs := f.Errors(); len(errs) > 0 {
		for _, name := range f.Names() {
			kinds, invalid := errs[name]
			if !invalid {
				continue
			}
			msg := fmt.Sprintf("%s: %s", desc.Label(name), strings.Join(kinds, ", "))
			if err := env.Driver.Info(ctx, msg); err != nil {
				return "", err
			}
		}
	}

	save, err := env.Driver.Confirm(ctx, prompt.ConfirmConfig{Message: "Save?", Default: f.Valid()})
	if errors.Is(err, prompt.ErrAborted) || (err == nil && !save) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if err := ctrl.Save(ctx); err != nil {
		return "", err
	}
	return history.Path(), nil
}

func startPath(collection, id string) string {
	if id == "" {
		return "/" + collection + "/new"
	}
	return controller.EditPath(collection, id)
}

func promptControl(ctx context.Context, env editEnv, ctrl *controller.Controller, desc model.Descriptor, name string) error {
	f := ctrl.Form()
	current, _ := f.Get(name)
	prop, _ := desc.Property(name)
	label := desc.Label(name)

	switch {
	case prop.Lookup != nil:
		return ctrl.OpenLookup(ctx, prop.Lookup.Collection, name, prop.Lookup.Columns)

	case len(prop.Enum) > 0:
		options := make([]string, len(prop.Enum))
		selected := 0
		for i, value := range prop.Enum {
			options[i] = enumLabel(env, desc.Collection, name, value)
			if fmt.Sprint(value) == fmt.Sprint(current.Value()) {
				selected = i
			}
		}
		idx, err := env.Driver.Select(ctx, prompt.SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: selected,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(prop.Enum) {
			return fmt.Errorf("edit: %s: option %d out of range", name, idx)
		}
		return f.SetValue(name, prop.Enum[idx])

	default:
		raw, err := env.Driver.Input(ctx, prompt.InputConfig{
			Message: label,
			Default: formatValue(current.Value()),
			Validator: func(s string) error {
				_, err := parseValue(prop.Type, s)
				return err
			},
		})
		if err != nil {
			return err
		}
		value, err := parseValue(prop.Type, raw)
		if err != nil {
			return fmt.Errorf("edit: %s: %w", name, err)
		}
		return f.SetValue(name, value)
	}
}

// enumLabel translates "<collection>.enums.<property>.<value>", falling back
// to the raw value.
func enumLabel(env editEnv, collection, property string, value any) string {
	raw := fmt.Sprint(value)
	if env.Translator == nil {
		return raw
	}
	key := collection + ".enums." + property + "." + raw
	msg, err := env.Translator.Translate(env.Locale, key)
	if err != nil {
		return raw
	}
	return msg
}

func formatValue(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

// parseValue converts terminal input to the property type. Blank input
// clears the value.
func parseValue(fieldType model.FieldType, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	switch fieldType {
	case model.FieldTypeInteger:
		return strconv.Atoi(raw)
	case model.FieldTypeNumber:
		return strconv.ParseFloat(raw, 64)
	case model.FieldTypeBoolean:
		return strconv.ParseBool(raw)
	default:
		return raw, nil
	}
}
