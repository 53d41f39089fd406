package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/voidshard/citygen"
	"github.com/voidshard/citygen/citymodel"
)

// axiomsFile is the on-disk shape accepted by --axioms: a plain JSON array
// of AxiomInput plus an optional embedded UserPlacedInputs, kept separate
// from citymodel's own types so the CLI's input format can evolve without
// touching the generation package.
type axiomsFile struct {
	Axioms     []citymodel.AxiomInput     `json:"axioms"`
	UserInputs citymodel.UserPlacedInputs `json:"user_inputs"`
}

var (
	flagWidth, flagHeight float64
	flagSeed              uint32
	flagOutput            string
	flagAxioms            string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a city and write its JSON export",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().Float64Var(&flagWidth, "width", 2000, "city bounds width")
	generateCmd.Flags().Float64Var(&flagHeight, "height", 2000, "city bounds height")
	generateCmd.Flags().Uint32Var(&flagSeed, "seed", 1, "generation seed")
	generateCmd.Flags().StringVar(&flagOutput, "output", "city.json", "output JSON path")
	generateCmd.Flags().StringVar(&flagAxioms, "axioms", "", "path to a JSON file of axioms/user_inputs (optional)")

	_ = viper.BindPFlag("width", generateCmd.Flags().Lookup("width"))
	_ = viper.BindPFlag("height", generateCmd.Flags().Lookup("height"))
	_ = viper.BindPFlag("seed", generateCmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("output", generateCmd.Flags().Lookup("output"))

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(_ *cobra.Command, _ []string) error {
	width := viper.GetFloat64("width")
	height := viper.GetFloat64("height")
	seed := uint32(viper.GetUint("seed"))
	output := viper.GetString("output")
	if width == 0 {
		width = flagWidth
	}
	if height == 0 {
		height = flagHeight
	}
	if seed == 0 {
		seed = flagSeed
	}
	if output == "" {
		output = flagOutput
	}

	params := citymodel.DefaultCityParams(width, height, seed)

	var axioms []citymodel.AxiomInput
	var userInputs citymodel.UserPlacedInputs
	if flagAxioms != "" {
		data, err := os.ReadFile(flagAxioms)
		if err != nil {
			return err
		}
		var af axiomsFile
		if err := json.Unmarshal(data, &af); err != nil {
			return err
		}
		axioms = af.Axioms
		userInputs = af.UserInputs
	}

	log.Infof("generating city width=%.0f height=%.0f seed=%d axioms=%d", width, height, seed, len(axioms))

	city, err := citygen.Generate(params, axioms, userInputs)
	if err != nil {
		return err
	}

	if err := citygen.WriteJSON(city, output); err != nil {
		return err
	}

	totalRoads := 0
	for _, n := range city.Stats.RoadsAccepted {
		totalRoads += n
	}
	log.Infof("wrote %s: roads=%d districts=%d blocks=%d lots=%d buildings=%d",
		output, totalRoads, len(city.Districts), city.Stats.BlocksFound,
		len(city.Lots), len(city.BuildingSites))
	return nil
}
