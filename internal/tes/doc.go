// Package tes implements the stratified thermal-energy-storage engine.
//
// A tank of N horizontal layers (layer 0 at the top) is advanced one step at a
// time:
//
//  1. [BuildFlowNetwork] resolves boundary inlet/outlet flows into one
//     directed flow per layer interface.
//  2. [SwitchConductivity] picks still-water or convective conductivity per
//     interface from the previous temperature ordering.
//  3. [Assemble] builds the tri-diagonal continuous-time system.
//  4. The configured [dynamo.Integrator] (exact by default) advances it.
//
// [Engine] owns the temperature state and only commits a step that fully
// succeeded.
package tes
