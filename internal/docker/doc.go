// Package docker talks to the local Docker daemon about generated images.
//
// The Client checks daemon reachability and whether an image reference
// produced by a generate run is already present locally. The DockerAPI
// interface covers the SDK calls used, so tests inject a mock.
//
//	client, err := docker.NewClient()
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	ok, err := client.ImageExists(ctx, "tslno/node-gcloud:8.0.0")
package docker
