// Package config loads stack configuration files from disk and finds the
// project they belong to.
//
// A project is a directory containing .meshstack/project. Stacks are declared
// in .hcl files anywhere under the project directory:
//
//  stack "colors" {
//    description = "App Mesh colors application"
//
//    resource "aws_appmesh_mesh" "mesh" {
//      mesh_name = "colorsMesh"
//    }
//
//    resource "aws_appmesh_virtual_router" "router" {
//      mesh_name           = mesh.mesh_name
//      virtual_router_name = "colorteller-vr"
//      spec = {
//        listeners = [{ port_mapping = { port = 9080, protocol = "http" } }]
//      }
//    }
//
//    output "mesh_arn" {
//      value = mesh.arn
//    }
//  }
//
// The files are merged into a single body, which is decoded with
// hcldecoder.Decoder.
package config
