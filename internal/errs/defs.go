// SPDX-License-Identifier: BSD-3-Clause
//
// Authors: Alexander Jung <alex@unikraft.io>
//
// Copyright (c) 2022, Unikraft GmbH.  All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions
// are met:
//
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the names of its
//    contributors may be used to endorse or promote products derived from
//    this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.
package errs

import "errors"

var (
	// ErrConfiguration is returned when the requested build axes cannot be
	// resolved, e.g. an unsupported platform or a CPU count below one
	ErrConfiguration = errors.New("invalid build configuration")

	// ErrToolchain is returned when a toolchain step cannot be launched or
	// exits with a non-zero status
	ErrToolchain = errors.New("toolchain step failed")

	// ErrManifest is returned when a platform manifest is missing, unreadable,
	// malformed or lacks a required field
	ErrManifest = errors.New("invalid platform manifest")
)

// IsConfigurationError returns true if the unwrapped error is ErrConfiguration
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsToolchainError returns true if the unwrapped error is ErrToolchain
func IsToolchainError(err error) bool {
	return errors.Is(err, ErrToolchain)
}

// IsManifestError returns true if the unwrapped error is ErrManifest
func IsManifestError(err error) bool {
	return errors.Is(err, ErrManifest)
}

// ExitCode maps err to the status the process exits with.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	return 1
}
