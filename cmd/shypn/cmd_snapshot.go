package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simao-eugenio/shypn-sub018/experiment"
)

var snapshotFlags struct {
	file        string
	transitions string
	name        string
	rates       []string
	markings    []string
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage experiment parameter snapshots",
	Long: `Capture, list and delete named parameter snapshots (markings, arc
weights, firing rates) stored in a snapshots file for comparative
what-if runs.`,
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save <model.json>",
	Short: "Capture a snapshot of a subnet's parameters",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotSave,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotList,
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete <snapshot-id>",
	Short: "Delete a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotDelete,
}

func init() {
	pf := snapshotCmd.PersistentFlags()
	pf.StringVar(&snapshotFlags.file, "file", "snapshots.json", "Snapshots file")

	f := snapshotSaveCmd.Flags()
	f.StringVarP(&snapshotFlags.transitions, "transitions", "t", "", "Comma-separated transition IDs (default: all)")
	f.StringVar(&snapshotFlags.name, "name", "experiment", "Snapshot name")
	f.StringArrayVar(&snapshotFlags.rates, "rate", nil, "Rate override, TRANSITION=RATE (repeatable)")
	f.StringArrayVar(&snapshotFlags.markings, "marking", nil, "Marking override, PLACE=TOKENS (repeatable)")

	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotDeleteCmd)
}

func readSnapshots(path string) ([]*experiment.Snapshot, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshots: %w", err)
	}
	var snapshots []*experiment.Snapshot
	if err := json.Unmarshal(data, &snapshots); err != nil {
		return nil, fmt.Errorf("parse snapshots: %w", err)
	}
	return snapshots, nil
}

func writeSnapshots(path string, snapshots []*experiment.Snapshot) error {
	data, err := json.MarshalIndent(snapshots, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshots: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshots: %w", err)
	}
	return nil
}

func runSnapshotSave(cmd *cobra.Command, args []string) error {
	net, err := loadNet(args[0])
	if err != nil {
		return err
	}
	sn, err := buildSubnet(net, splitList(snapshotFlags.transitions))
	if err != nil {
		return err
	}

	markingOverrides, err := parseIntPairs(snapshotFlags.markings)
	if err != nil {
		return err
	}
	for pid, tokens := range markingOverrides {
		place, ok := sn.Net.Places[pid]
		if !ok {
			return fmt.Errorf("unknown place %s", pid)
		}
		place.Tokens = tokens
	}
	rates, err := parseFloatPairs(snapshotFlags.rates)
	if err != nil {
		return err
	}
	for tid := range rates {
		if !sn.Net.IsTransition(tid) {
			return fmt.Errorf("unknown transition %s", tid)
		}
	}

	manager := experiment.NewManager(sn)
	id := manager.Save(snapshotFlags.name, rates)
	snap, err := manager.Load(id)
	if err != nil {
		return err
	}

	snapshots, err := readSnapshots(snapshotFlags.file)
	if err != nil {
		return err
	}
	snapshots = append(snapshots, snap)
	if err := writeSnapshots(snapshotFlags.file, snapshots); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved snapshot %s (%s)\n", snap.Name, snap.ID)
	return nil
}

func runSnapshotList(cmd *cobra.Command, args []string) error {
	snapshots, err := readSnapshots(snapshotFlags.file)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(snapshots) == 0 {
		fmt.Fprintln(out, "No snapshots.")
		return nil
	}
	for _, snap := range snapshots {
		fmt.Fprintf(out, "%s  %-20s  %d places, %d rates  %s\n",
			snap.ID, snap.Name, len(snap.Markings), len(snap.Rates),
			snap.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runSnapshotDelete(cmd *cobra.Command, args []string) error {
	snapshots, err := readSnapshots(snapshotFlags.file)
	if err != nil {
		return err
	}
	kept := snapshots[:0]
	found := false
	for _, snap := range snapshots {
		if snap.ID == args[0] {
			found = true
			continue
		}
		kept = append(kept, snap)
	}
	if !found {
		return fmt.Errorf("snapshot %s not found in %s", args[0], snapshotFlags.file)
	}
	if err := writeSnapshots(snapshotFlags.file, kept); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted snapshot %s\n", args[0])
	return nil
}
