// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// colstore-tool inspects a colstore storage directory: the registered
// relations, their stripe layout and their on-disk footprint. It opens the
// store read-only in the sense that it never begins a write state.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matrixorigin/colstore/pkg/colstore"
	"github.com/matrixorigin/colstore/pkg/colstore/options"
	"github.com/matrixorigin/colstore/pkg/config"
	"github.com/matrixorigin/colstore/pkg/logutil"
)

var (
	storeDir string
	cfgFile  string
)

func main() {
	root := &cobra.Command{
		Use:   "colstore-tool",
		Short: "Inspect a colstore storage directory",
	}
	root.PersistentFlags().StringVarP(&storeDir, "dir", "d", "", "storage directory")
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "TOML configuration file")
	root.AddCommand(listCommand(), describeCommand())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore resolves the directory and options from the flags, config file
// values losing to an explicit --dir.
func openStore() (*colstore.Store, error) {
	dir := storeDir
	var opts *options.Options
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		if err = logutil.Setup(cfg.Log); err != nil {
			return nil, err
		}
		if opts, err = cfg.Options(); err != nil {
			return nil, err
		}
		if dir == "" {
			dir = cfg.Storage.Dir
		}
	}
	if dir == "" {
		return nil, fmt.Errorf("no storage directory: pass --dir or a config file")
	}
	return colstore.Open(dir, opts)
}

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List relations with row counts and stored sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			for _, id := range s.Catalog().ListRelations() {
				entry, err := s.Catalog().Read(id)
				if err != nil {
					return err
				}
				fmt.Printf("relation %d: %d stripes, %d rows, %d bytes, block rows %d\n",
					id, len(entry.Stripes), entry.RowCount(), entry.StoredSize(), entry.BlockRows)
			}
			return nil
		},
	}
}

func describeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <relation-id>",
		Short: "Print the stripe and block layout of one relation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return err
			}
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			entry, err := s.Catalog().Read(id)
			if err != nil {
				return err
			}
			fmt.Printf("relation %d: block rows %d, %d rows total\n",
				id, entry.BlockRows, entry.RowCount())
			for si := range entry.Stripes {
				stripe := &entry.Stripes[si]
				fmt.Printf("  stripe %d: offset %d, %d rows, %d blocks\n",
					si, stripe.Offset, stripe.Rows, len(stripe.Blocks))
				for bi := range stripe.Blocks {
					blk := &stripe.Blocks[bi]
					fmt.Printf("    block %d: %d rows\n", bi, blk.Rows)
					for ci := range blk.Cols {
						col := &blk.Cols[ci]
						fmt.Printf("      col %d %s: alg %d, %d stored, %d origin, %d nulls\n",
							col.Idx, col.Typ, col.Alg, col.StoredLen(), col.OriginSize, col.NullCnt)
					}
				}
			}
			return nil
		},
	}
}
