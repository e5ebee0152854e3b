// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package toolchain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/shlex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rel4kit.sh/internal/errs"
	"rel4kit.sh/platform"
)

func TestResolve(t *testing.T) {
	testCases := []struct {
		desc   string
		axes   Axes
		native string
		meta   string
		macros []string
	}{
		{
			desc:   "spike defaults",
			axes:   DefaultAxes(platform.PlatformSpike),
			native: "cargo build --release --target riscv64gc-unknown-none-elf --lib",
			meta:   "cd ./build && ../../init-build.sh -DPLATFORM=spike -DSIMULATION=TRUE && ninja",
			macros: []string{"FASTPATH=true"},
		},
		{
			desc: "spike with four cpus and mcs",
			axes: Axes{
				Platform: platform.PlatformSpike,
				CPUs:     4,
				MCS:      true,
			},
			native: "cargo build --release --target riscv64gc-unknown-none-elf --features enable_smp --features kernel_mcs --lib",
			meta:   "cd ./build && ../../init-build.sh -DPLATFORM=spike -DSIMULATION=TRUE -DSMP=TRUE -DNUM_NODES=4 -DMCS=TRUE && ninja",
			macros: []string{"ENABLE_SMP_SUPPORT=true", "MAX_NUM_NODES=4", "KERNEL_MCS=true", "FASTPATH=true"},
		},
		{
			desc: "qemu-arm-virt with smc",
			axes: Axes{
				Platform: platform.PlatformQEMUArmVirt,
				CPUs:     1,
				SMC:      true,
			},
			native: "cargo build --release --target aarch64-unknown-none-softfloat --features enable_smc --lib",
			meta:   "cd ./build && ../../init-build.sh -DPLATFORM=qemu-arm-virt -DSIMULATION=TRUE -DKernelAllowSMCCalls=ON && ninja",
			macros: []string{"ALLOW_SMC_CALLS=true", "FASTPATH=true"},
		},
		{
			desc: "smc ignored on spike",
			axes: Axes{
				Platform: platform.PlatformSpike,
				CPUs:     1,
				SMC:      true,
				ArmPCNT:  true,
				ArmPTMR:  true,
				ArmHyp:   true,
			},
			native: "cargo build --release --target riscv64gc-unknown-none-elf --lib",
			meta:   "cd ./build && ../../init-build.sh -DPLATFORM=spike -DSIMULATION=TRUE && ninja",
			macros: []string{"FASTPATH=true"},
		},
		{
			desc: "qemu-arm-virt hypervisor",
			axes: Axes{
				Platform: platform.PlatformQEMUArmVirt,
				CPUs:     1,
				ArmHyp:   true,
			},
			native: "cargo build --release --target aarch64-unknown-none-softfloat --features hypervisor --lib",
			meta:   "cd ./build && ../../init-build.sh -DPLATFORM=qemu-arm-virt -DSIMULATION=TRUE -DKernelArmHypervisorSupport=ON && ninja",
			macros: []string{"ARCH_ARM_HYP=true", "AARCH64_VSPACE_S2_START_L1=true", "FASTPATH=true"},
		},
		{
			desc: "every axis on qemu-arm-virt",
			axes: Axes{
				Platform: platform.PlatformQEMUArmVirt,
				CPUs:     2,
				MCS:      true,
				SMC:      true,
				Bin:      true,
				ArmPCNT:  true,
				ArmPTMR:  true,
				ArmHyp:   true,
			},
			native: "cargo build --release --target aarch64-unknown-none-softfloat" +
				" --features enable_smp --features kernel_mcs --features enable_smc" +
				" --features enable_arm_pcnt --features enable_arm_ptmr --features hypervisor" +
				" --bin rel4_kernel --features build_binary",
			meta: "cd ./build && ../../init-build.sh -DPLATFORM=qemu-arm-virt -DSIMULATION=TRUE" +
				" -DSMP=TRUE -DNUM_NODES=2 -DMCS=TRUE -DKernelAllowSMCCalls=ON" +
				" -DKernelArmExportPCNTUser=ON -DKernelArmExportPTMRUser=ON" +
				" -DKernelArmHypervisorSupport=ON -DREL4_KERNEL=TRUE && ninja",
			macros: []string{
				"ENABLE_SMP_SUPPORT=true", "MAX_NUM_NODES=2", "KERNEL_MCS=true",
				"ALLOW_SMC_CALLS=true", "EXPORT_PCNT_USER=true", "EXPORT_PTMR_USER=true",
				"ARCH_ARM_HYP=true", "AARCH64_VSPACE_S2_START_L1=true",
				"FASTPATH=true",
			},
		},
		{
			desc: "baseline overrides other axes",
			axes: Axes{
				Platform: platform.PlatformQEMUArmVirt,
				Baseline: true,
				CPUs:     4,
				MCS:      true,
				SMC:      true,
				Bin:      true,
			},
			native: "cd ../kernel && git checkout baseline",
			meta:   "cd ./build && ../../init-build.sh -DPLATFORM=qemu-arm-virt -DSIMULATION=TRUE && ninja",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			res, err := Resolve(tc.axes)
			require.NoError(t, err)

			assert.Equal(t, tc.native, res.Native.String())
			assert.Equal(t, tc.meta, res.Meta.String())
			assert.Equal(t, tc.macros, res.Macros)
			assert.Equal(t, tc.axes.CPUs, res.CPUs)
			assert.Equal(t, tc.axes.CPUs > 1, res.Multicore)
			assert.Equal(t, tc.axes, res.Axes)
		})
	}
}

func TestResolveSMPTokenCount(t *testing.T) {
	for _, cpus := range []int{1, 2, 3, 8} {
		res, err := Resolve(Axes{Platform: platform.PlatformSpike, CPUs: cpus})
		require.NoError(t, err)

		native := countTokens(t, res.Native.String(), "enable_smp")
		meta := countTokens(t, res.Meta.String(), "-DSMP=TRUE")

		if cpus == 1 {
			assert.Zero(t, native, "cpus=%d", cpus)
			assert.Zero(t, meta, "cpus=%d", cpus)
		} else {
			assert.Equal(t, 1, native, "cpus=%d", cpus)
			assert.Equal(t, 1, meta, "cpus=%d", cpus)
		}
	}
}

func TestResolveNoDuplicateTokens(t *testing.T) {
	res, err := Resolve(Axes{
		Platform: platform.PlatformQEMUArmVirt,
		CPUs:     2,
		MCS:      true,
		SMC:      true,
		ArmPCNT:  true,
		ArmPTMR:  true,
	})
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, tok := range res.Native.Steps[0].Args {
		if tok == "--features" {
			continue
		}
		assert.False(t, seen[tok], "token %q emitted twice", tok)
		seen[tok] = true
	}
}

func TestResolveNativeEnvironment(t *testing.T) {
	res, err := Resolve(Axes{Platform: platform.PlatformSpike, CPUs: 2}, WithFastpath(false))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"PLATFORM=spike",
		"MARCOS=ENABLE_SMP_SUPPORT=true MAX_NUM_NODES=2",
	}, res.Native.Env())
}

func TestResolveStackBits(t *testing.T) {
	res, err := Resolve(Axes{Platform: platform.PlatformSpike, CPUs: 1, MCS: true}, WithStackBits(12))
	require.NoError(t, err)
	assert.Equal(t, []string{"KERNEL_STACK_BITS=12", "KERNEL_MCS=true", "FASTPATH=true"}, res.Macros)
	assert.Contains(t, res.Native.Env(), "MARCOS=KERNEL_STACK_BITS=12 KERNEL_MCS=true FASTPATH=true")

	res, err = Resolve(Axes{Platform: platform.PlatformSpike, CPUs: 1, Baseline: true}, WithStackBits(12))
	require.NoError(t, err)
	assert.Empty(t, res.Macros)
}

func TestResolveDirectories(t *testing.T) {
	res, err := Resolve(Axes{Platform: platform.PlatformSpike, CPUs: 1, Baseline: true},
		WithBuildDir("out/meta"),
		WithKernelDir("../sel4"),
	)
	require.NoError(t, err)

	assert.Equal(t, "cd ../sel4 && git checkout baseline", res.Native.String())
	assert.Equal(t, "cd out/meta && ../../../init-build.sh -DPLATFORM=spike -DSIMULATION=TRUE && ninja", res.Meta.String())
	assert.Empty(t, res.Macros)
}

func TestResolveConfigurationError(t *testing.T) {
	testCases := []struct {
		desc  string
		axes  Axes
		cause error
	}{
		{
			desc:  "unknown platform",
			axes:  Axes{Platform: platform.Platform("x86_64-pc"), CPUs: 1},
			cause: ErrUnsupportedPlatform,
		},
		{
			desc:  "zero cpus",
			axes:  Axes{Platform: platform.PlatformSpike, CPUs: 0},
			cause: ErrInvalidCPUs,
		},
		{
			desc:  "negative cpus on baseline",
			axes:  Axes{Platform: platform.PlatformSpike, CPUs: -1, Baseline: true},
			cause: ErrInvalidCPUs,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			res, err := Resolve(tc.axes)
			require.Error(t, err)
			assert.Nil(t, res)

			var cerr *ConfigurationError
			assert.True(t, errors.As(err, &cerr))
			assert.ErrorIs(t, err, tc.cause)
			assert.True(t, errs.IsConfigurationError(err))
		})
	}
}

func TestFlagsSlotOrder(t *testing.T) {
	flags := Flags(Axes{
		Platform: platform.PlatformQEMUArmVirt,
		CPUs:     2,
		MCS:      true,
		SMC:      true,
		Bin:      true,
		ArmPCNT:  true,
		ArmPTMR:  true,
		ArmHyp:   true,
	})

	require.Len(t, flags, int(numSlots))
	for i, f := range flags {
		assert.Equal(t, Slot(i), f.Slot())
	}
}

func TestFlagSetRejectsDuplicateSlot(t *testing.T) {
	var set flagSet
	set.Set(mcsFlag)

	assert.Panics(t, func() { set.Set(mcsFlag) })
}

func countTokens(t *testing.T, cmdline, token string) int {
	t.Helper()

	tokens, err := shlex.Split(cmdline)
	require.NoError(t, err)

	n := 0
	for _, tok := range tokens {
		if tok == token {
			n++
		}
	}
	return n
}

func TestSlotString(t *testing.T) {
	assert.Equal(t, "secure-monitor", SlotSecureMonitor.String())
	assert.True(t, strings.HasPrefix(Slot(42).String(), "slot("))
}
