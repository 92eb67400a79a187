// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package proxy

import (
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
)

const proxyAbiJson = `[
	{"type":"constructor","stateMutability":"payable","inputs":[{"name":"_logic","type":"address"},{"name":"_data","type":"bytes"}]},
	{"type":"function","name":"implementation","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"getImplementationSlot","stateMutability":"pure","inputs":[],"outputs":[{"name":"","type":"bytes32"}]},
	{"type":"function","name":"getCurrentAdmin","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"getAdminSlot","stateMutability":"pure","inputs":[],"outputs":[{"name":"","type":"bytes32"}]},
	{"type":"function","name":"upgradeToAndCall","stateMutability":"payable","inputs":[{"name":"newImplementation","type":"address"},{"name":"data","type":"bytes"}],"outputs":[]},
	{"type":"function","name":"changeAdmin","stateMutability":"nonpayable","inputs":[{"name":"newAdmin","type":"address"}],"outputs":[]},
	{"type":"event","name":"Upgraded","anonymous":false,"inputs":[{"name":"implementation","type":"address","indexed":true}]},
	{"type":"event","name":"AdminChanged","anonymous":false,"inputs":[{"name":"previousAdmin","type":"address","indexed":false},{"name":"newAdmin","type":"address","indexed":false}]}
]`

// ProxyAbi is the management surface of the proxy, every other selector is forwarded to the implementation.
var ProxyAbi = types.MustParseAbi(proxyAbiJson)
