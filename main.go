package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/ZacxDev/video-captioner/internal/config"
	"github.com/ZacxDev/video-captioner/internal/logging"
	"github.com/ZacxDev/video-captioner/internal/overlay"
	"github.com/ZacxDev/video-captioner/pkg/captioner"
	"github.com/ZacxDev/video-captioner/pkg/types"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "video-captioner",
		Short: "Burn personalized captions into videos",
		Long: `video-captioner draws a word-wrapped caption with a drop shadow onto the
first seconds of a video. Captions can be written by hand or generated from a
customer's transaction history.

Examples:
  # Caption the first 5 seconds of a video
  video-captioner overlay -i input.mp4 -o output.mp4 --text "Haloo kamu sering transfer" --duration 5s

  # Generate a caption from transaction records and burn it in
  video-captioner generate --records transactions.xlsx --cif 1001 -i template.mp4`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional
			_ = godotenv.Load()

			verbose, _ := cmd.Flags().GetBool("verbose")
			logging.Init(verbose)

			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			cmd.SetContext(config.WithConfig(cmd.Context(), cfg))
			return nil
		},
	}

	overlayCmd = &cobra.Command{
		Use:   "overlay",
		Short: "Burn a caption into a video",
		Long: fmt.Sprintf(`Draw a caption onto the leading frames of a video.

Supported profiles:
%s
Example:
  video-captioner overlay -i input.mp4 -o output.mp4 --text "Haloo kamu sering transfer"`,
			formatSupportedProfiles()),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())

			inputPath, _ := cmd.Flags().GetString("input")
			outputPath, _ := cmd.Flags().GetString("output")
			text, _ := cmd.Flags().GetString("text")

			style, err := styleFromFlags(cmd, cfg)
			if err != nil {
				return err
			}

			video, err := captioner.AddText(cmd.Context(), &captioner.OverlayOptions{
				InputPath:  inputPath,
				OutputPath: outputPath,
				Caption:    text,
				Profile:    profileFromFlags(cmd, cfg),
				Style:      style,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Video saved as %s\n", video.FilePath)
			return nil
		},
	}

	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate a personalized caption and burn it into a video",
		Long: `Look up a customer's payment categories in a transaction workbook, write a
caption for them with a language model, and burn it into a template video.

Example:
  video-captioner generate --records transactions.xlsx --cif 1001 -i template.mp4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())

			opts, err := generateOptionsFromFlags(cmd, cfg)
			if err != nil {
				return err
			}
			opts.InputPath, _ = cmd.Flags().GetString("input")
			opts.OutputPath, _ = cmd.Flags().GetString("output")
			opts.Profile = profileFromFlags(cmd, cfg)

			video, err := captioner.GenerateVideo(cmd.Context(), opts)
			if err != nil {
				return err
			}

			fmt.Printf("Caption: %s\n", video.Caption)
			fmt.Printf("Video saved as %s\n", video.FilePath)
			return nil
		},
	}

	captionCmd = &cobra.Command{
		Use:   "caption",
		Short: "Generate a personalized caption without rendering a video",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())

			opts, err := generateOptionsFromFlags(cmd, cfg)
			if err != nil {
				return err
			}

			text, categories, err := captioner.GenerateCaption(cmd.Context(), opts)
			if err != nil {
				return err
			}

			fmt.Printf("Found %d transaction patterns: %s\n", len(categories), strings.Join(categories, ", "))
			fmt.Println(text)
			return nil
		},
	}
)

var (
	probeCmd = &cobra.Command{
		Use:   "probe",
		Short: "Print the properties the overlay pipeline reads from a video",
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath, _ := cmd.Flags().GetString("input")

			m, err := captioner.GetVideoMetadata(inputPath)
			if err != nil {
				return err
			}

			fmt.Printf("Resolution: %dx%d\n", m.Width, m.Height)
			fmt.Printf("Frame rate: %s (%d fps)\n", m.FrameRate, m.FPS)
			fmt.Printf("Frames:     %d\n", m.FrameCount)
			fmt.Printf("Duration:   %.2fs\n", m.Duration)
			fmt.Printf("Codec:      %s\n", m.Codec)
			return nil
		},
	}

	initConfigCmd = &cobra.Command{
		Use:   "init-config",
		Short: "Write the effective configuration to a yaml file",
		Long: `Write the configuration currently in effect (defaults merged with any loaded
config file) so it can be edited.

Example:
  video-captioner init-config -o captioner.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())

			outputPath, _ := cmd.Flags().GetString("output")
			force, _ := cmd.Flags().GetBool("force")

			if _, err := os.Stat(outputPath); err == nil && !force {
				return errors.Errorf("%s already exists (use --force to overwrite)", outputPath)
			}

			// keys stay in the environment
			saved := *cfg
			saved.Caption.APIKey = ""
			if err := saved.Save(outputPath); err != nil {
				return errors.Wrapf(err, "failed to write %s", outputPath)
			}

			fmt.Printf("Config written to %s\n", outputPath)
			return nil
		},
	}
)

func formatSupportedProfiles() string {
	var sb strings.Builder
	for _, name := range captioner.GetSupportedProfiles() {
		sb.WriteString(fmt.Sprintf("- %s\n", name))
	}
	return sb.String()
}

// styleFromFlags overlays explicitly set flags on the configured style
func styleFromFlags(cmd *cobra.Command, cfg *config.Config) (overlay.Config, error) {
	style := cfg.Style
	flags := cmd.Flags()

	if flags.Changed("font-scale") {
		style.FontScale, _ = flags.GetFloat64("font-scale")
	}
	if flags.Changed("text-color") {
		style.TextColor, _ = flags.GetString("text-color")
	}
	if flags.Changed("thickness") {
		style.FontThickness, _ = flags.GetInt("thickness")
	}
	if flags.Changed("shadow-color") {
		style.ShadowColor, _ = flags.GetString("shadow-color")
	}
	if flags.Changed("shadow-offset") {
		offset, _ := flags.GetIntSlice("shadow-offset")
		if len(offset) != 2 {
			return overlay.Config{}, errors.New("--shadow-offset takes two values: x,y")
		}
		style.ShadowOffsetX, style.ShadowOffsetY = offset[0], offset[1]
	}
	if flags.Changed("duration") {
		style.Duration, _ = flags.GetDuration("duration")
	}

	return style.OverlayConfig()
}

func profileFromFlags(cmd *cobra.Command, cfg *config.Config) string {
	if cmd.Flags().Changed("profile") {
		name, _ := cmd.Flags().GetString("profile")
		return name
	}
	return cfg.Output.Profile
}

func generateOptionsFromFlags(cmd *cobra.Command, cfg *config.Config) (*captioner.GenerateOptions, error) {
	flags := cmd.Flags()
	recordsPath, _ := flags.GetString("records")
	cif, _ := flags.GetString("cif")

	captionCfg := cfg.Caption
	if flags.Changed("provider") {
		provider, _ := flags.GetString("provider")
		captionCfg.Provider = types.CaptionProvider(provider)
	}
	if flags.Changed("model") {
		captionCfg.Model, _ = flags.GetString("model")
	}
	if flags.Changed("api-key") {
		captionCfg.APIKey, _ = flags.GetString("api-key")
	}

	opts := &captioner.GenerateOptions{
		RecordsPath:   recordsPath,
		CIF:           cif,
		AcceptedTypes: cfg.Records.AcceptedTypes,
		Provider:      captionCfg.Provider,
		APIKey:        captionCfg.ResolveAPIKey(),
		Model:         captionCfg.Model,
		OutputDir:     cfg.Output.Dir,
	}

	// only the video-producing command defines style flags
	if flags.Lookup("font-scale") != nil {
		style, err := styleFromFlags(cmd, cfg)
		if err != nil {
			return nil, err
		}
		opts.Style = style
	}
	return opts, nil
}

func addStyleFlags(cmd *cobra.Command) {
	d := overlay.DefaultConfig()
	cmd.Flags().Float64("font-scale", d.FontScale, "Caption size relative to the base font")
	cmd.Flags().String("text-color", "white", "Caption color (#RRGGBB or name)")
	cmd.Flags().Int("thickness", d.FontThickness, "Stroke thickness in pixels")
	cmd.Flags().String("shadow-color", "green", "Shadow color (#RRGGBB or name)")
	cmd.Flags().IntSlice("shadow-offset", []int{d.ShadowOffset.X, d.ShadowOffset.Y}, "Shadow offset in pixels (x,y)")
	cmd.Flags().Duration("duration", d.Duration, "How long the caption stays on screen (e.g., '5s', '1m')")
	cmd.Flags().StringP("profile", "p", "",
		fmt.Sprintf("Output profile (%s)", strings.Join(captioner.GetSupportedProfiles(), ", ")))
}

func addRecordFlags(cmd *cobra.Command) {
	cmd.Flags().String("records", "", "Transaction workbook (.xlsx)")
	cmd.Flags().String("cif", "", "Customer identifier to look up")
	cmd.Flags().String("provider", string(types.CaptionProviderCohere), "Caption provider (cohere or groq)")
	cmd.Flags().String("model", "", "Model name (provider default when empty)")
	cmd.Flags().String("api-key", "", "Provider API key (default from config or COHERE_API_KEY / GROQ_API_KEY)")

	cmd.MarkFlagRequired("records")
	cmd.MarkFlagRequired("cif")
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./captioner.yaml or ~/.captioner/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Overlay command flags
	overlayCmd.Flags().StringP("input", "i", "", "Input video file")
	overlayCmd.Flags().StringP("output", "o", "", "Output video file")
	overlayCmd.Flags().StringP("text", "t", "", "Caption text")
	addStyleFlags(overlayCmd)

	overlayCmd.MarkFlagRequired("input")
	overlayCmd.MarkFlagRequired("output")

	// Generate command flags
	generateCmd.Flags().StringP("input", "i", "", "Template video file")
	generateCmd.Flags().StringP("output", "o", "", "Output video file (default output_video_<cif>)")
	addStyleFlags(generateCmd)
	addRecordFlags(generateCmd)

	generateCmd.MarkFlagRequired("input")

	// Caption command flags
	addRecordFlags(captionCmd)

	// Probe command flags
	probeCmd.Flags().StringP("input", "i", "", "Input video file")
	probeCmd.MarkFlagRequired("input")

	// Init-config command flags
	initConfigCmd.Flags().StringP("output", "o", "captioner.yaml", "Config file to write")
	initConfigCmd.Flags().Bool("force", false, "Overwrite an existing file")

	rootCmd.AddCommand(overlayCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(captionCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(initConfigCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	start := time.Now()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("command failed")
		os.Exit(1)
	}
}
