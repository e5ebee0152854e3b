// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package toolchain

import (
	"fmt"
	"strconv"

	"rel4kit.sh/platform"
)

// Slot is a position in the canonical token order.  Every flag belongs to
// exactly one slot and a slot holds at most one flag.
type Slot int

const (
	SlotTarget Slot = iota
	SlotConcurrency
	SlotScheduling
	SlotSecureMonitor
	SlotArmPCNT
	SlotArmPTMR
	SlotArmHypervisor
	SlotPackaging

	numSlots
)

var slotNames = [numSlots]string{
	SlotTarget:        "target",
	SlotConcurrency:   "concurrency",
	SlotScheduling:    "scheduling",
	SlotSecureMonitor: "secure-monitor",
	SlotArmPCNT:       "arm-pcnt",
	SlotArmPTMR:       "arm-ptmr",
	SlotArmHypervisor: "arm-hypervisor",
	SlotPackaging:     "packaging",
}

func (s Slot) String() string {
	if s < 0 || s >= numSlots {
		return "slot(" + strconv.Itoa(int(s)) + ")"
	}
	return slotNames[s]
}

// Flag is one axis value rendered for both build systems.
type Flag interface {
	// Slot returns the position of the flag in the canonical order.
	Slot() Slot

	// Native returns the tokens appended to the cargo invocation.
	Native() []string

	// Meta returns the tokens appended to the init-build.sh invocation.
	Meta() []string

	// Macros returns the KEY=VALUE kernel macros exported to the native build.
	Macros() []string
}

type targetFlag struct{ platform platform.Platform }

func (f targetFlag) Slot() Slot { return SlotTarget }

func (f targetFlag) Native() []string {
	return []string{"--target", f.platform.Triple()}
}

func (f targetFlag) Meta() []string {
	return []string{"-DPLATFORM=" + f.platform.String(), "-DSIMULATION=TRUE"}
}

func (f targetFlag) Macros() []string { return nil }

type smpFlag struct{ cpus int }

func (f smpFlag) Slot() Slot { return SlotConcurrency }

func (f smpFlag) Native() []string {
	return []string{"--features", "enable_smp"}
}

func (f smpFlag) Meta() []string {
	return []string{"-DSMP=TRUE", fmt.Sprintf("-DNUM_NODES=%d", f.cpus)}
}

func (f smpFlag) Macros() []string {
	return []string{"ENABLE_SMP_SUPPORT=true", fmt.Sprintf("MAX_NUM_NODES=%d", f.cpus)}
}

// featureFlag is an on/off axis which maps to one cargo feature, one CMake
// define and one kernel macro.
type featureFlag struct {
	slot    Slot
	feature string
	define  string
	macro   string
}

func (f featureFlag) Slot() Slot { return f.slot }

func (f featureFlag) Native() []string {
	return []string{"--features", f.feature}
}

func (f featureFlag) Meta() []string {
	return []string{f.define}
}

func (f featureFlag) Macros() []string {
	return []string{f.macro}
}

var (
	mcsFlag = featureFlag{
		slot:    SlotScheduling,
		feature: "kernel_mcs",
		define:  "-DMCS=TRUE",
		macro:   "KERNEL_MCS=true",
	}
	smcFlag = featureFlag{
		slot:    SlotSecureMonitor,
		feature: "enable_smc",
		define:  "-DKernelAllowSMCCalls=ON",
		macro:   "ALLOW_SMC_CALLS=true",
	}
	pcntFlag = featureFlag{
		slot:    SlotArmPCNT,
		feature: "enable_arm_pcnt",
		define:  "-DKernelArmExportPCNTUser=ON",
		macro:   "EXPORT_PCNT_USER=true",
	}
	ptmrFlag = featureFlag{
		slot:    SlotArmPTMR,
		feature: "enable_arm_ptmr",
		define:  "-DKernelArmExportPTMRUser=ON",
		macro:   "EXPORT_PTMR_USER=true",
	}
)

// hypFlag runs the kernel at EL2, which also moves the stage-2 vspace start to
// the level-1 table.
type hypFlag struct{}

func (hypFlag) Slot() Slot { return SlotArmHypervisor }

func (hypFlag) Native() []string {
	return []string{"--features", "hypervisor"}
}

func (hypFlag) Meta() []string {
	return []string{"-DKernelArmHypervisorSupport=ON"}
}

func (hypFlag) Macros() []string {
	return []string{"ARCH_ARM_HYP=true", "AARCH64_VSPACE_S2_START_L1=true"}
}

type packagingFlag struct{ bin bool }

func (f packagingFlag) Slot() Slot { return SlotPackaging }

func (f packagingFlag) Native() []string {
	if f.bin {
		return []string{"--bin", "rel4_kernel", "--features", "build_binary"}
	}
	return []string{"--lib"}
}

func (f packagingFlag) Meta() []string {
	if f.bin {
		return []string{"-DREL4_KERNEL=TRUE"}
	}
	return nil
}

func (f packagingFlag) Macros() []string { return nil }

// flagSet orders flags by slot.
type flagSet [numSlots]Flag

// Set places f in its slot.  Filling a slot twice is a programming error.
func (s *flagSet) Set(f Flag) {
	if s[f.Slot()] != nil {
		panic(fmt.Sprintf("toolchain: slot %s filled twice", f.Slot()))
	}
	s[f.Slot()] = f
}

func (s *flagSet) collect(tokens func(Flag) []string) []string {
	var out []string
	for _, f := range s {
		if f != nil {
			out = append(out, tokens(f)...)
		}
	}
	return out
}

func (s *flagSet) Native() []string { return s.collect(Flag.Native) }
func (s *flagSet) Meta() []string   { return s.collect(Flag.Meta) }
func (s *flagSet) Macros() []string { return s.collect(Flag.Macros) }

func newFlagSet(a Axes) *flagSet {
	var set flagSet

	set.Set(targetFlag{platform: a.Platform})

	if a.Multicore() {
		set.Set(smpFlag{cpus: a.CPUs})
	}

	if a.MCS {
		set.Set(mcsFlag)
	}

	if a.Platform.IsAArch64() {
		if a.SMC {
			set.Set(smcFlag)
		}
		if a.ArmPCNT {
			set.Set(pcntFlag)
		}
		if a.ArmPTMR {
			set.Set(ptmrFlag)
		}
		if a.ArmHyp {
			set.Set(hypFlag{})
		}
	}

	set.Set(packagingFlag{bin: a.Bin})

	return &set
}

// Flags returns the flags selected by the axes, in slot order.  Baseline is not
// considered here.
func Flags(a Axes) []Flag {
	var flags []Flag
	for _, f := range newFlagSet(a) {
		if f != nil {
			flags = append(flags, f)
		}
	}

	return flags
}
