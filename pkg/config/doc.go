// Package config holds the settings shared by the build and deploy commands.
//
// The compiled-in defaults returned by Default are the contract: with no
// dreamsite.yaml present the commands behave exactly as Default describes. An
// optional dreamsite.yaml in the working directory overlays them; a missing
// file is not an error and is never created.
package config
