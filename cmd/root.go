/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/ebhydro/utils"
)

var (
	cfgFile  string
	profiler interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ebhydro",
	Short: "Godunov edge states and conservative redistribution on cut cell grids",
	Long: `
Predicts time centered edge states on a structured grid with embedded
boundaries and repairs the update of small cut cells by redistribution,

ebhydro redistribute -I case.yaml --policy wsrd -v`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.SetParallelDegree(viper.GetInt("parallel"))
		switch mode := viper.GetString("profile"); mode {
		case "":
		case "cpu":
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."))
		case "mem":
			profiler = profile.Start(profile.MemProfile, profile.ProfilePath("."))
		default:
			fmt.Printf("unknown profile mode [%s], use cpu or mem\n", mode)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if profiler != nil {
			profiler.Stop()
			profiler = nil
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ebhydro.yaml)")
	pf.IntP("parallel", "p", 0, "go routines per stage, 0 uses every CPU")
	pf.BoolP("verbose", "v", false, "print per step progress")
	pf.String("profile", "", "write a cpu or mem profile to the current directory")
	pf.String("policy", "", "redistribution policy, overrides the case file: "+
		"NoRedist, FluxRedist, StateRedist, NewStateRedist")
	pf.Int("maxOrder", 2, "slope order of state redistribution, 0 to 2")
	pf.Float64("targetVolfrac", 0.5, "volume fraction a merged neighborhood should reach")
	for _, name := range []string{"parallel", "verbose", "profile", "policy", "maxOrder", "targetVolfrac"} {
		if err := viper.BindPFlag(name, pf.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".ebhydro")
	}
	viper.SetEnvPrefix("ebhydro")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
