package argocdinstaller

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

const rootApplicationName = "homelab-apps"

// createRootApplication registers an app-of-apps Application so Argo CD syncs
// everything under the configured applications path of the GitOps repository.
func (a *Installer) createRootApplication(ctx context.Context) error {
	dynamicClient, err := a.newDynamicClient()
	if err != nil {
		return fmt.Errorf("failed to create dynamic client: %w", err)
	}

	applicationGVR := schema.GroupVersionResource{
		Group:    "argoproj.io",
		Version:  "v1alpha1",
		Resource: "applications",
	}

	application := &unstructured.Unstructured{
		Object: map[string]any{
			"apiVersion": "argoproj.io/v1alpha1",
			"kind":       "Application",
			"metadata": map[string]any{
				"name":      rootApplicationName,
				"namespace": argoCDNamespace,
			},
			"spec": map[string]any{
				"project": "default",
				"source": map[string]any{
					"repoURL":        a.spec.RepoURL,
					"targetRevision": a.spec.TargetRevision,
					"path":           a.spec.AppsPath,
				},
				"destination": map[string]any{
					"server": "https://kubernetes.default.svc",
				},
				"syncPolicy": map[string]any{
					"automated": map[string]any{
						"prune":    true,
						"selfHeal": true,
					},
					"syncOptions": []any{
						"CreateNamespace=true",
					},
				},
			},
		},
	}

	_, err = dynamicClient.Resource(applicationGVR).Namespace(argoCDNamespace).
		Create(ctx, application, metav1.CreateOptions{})
	if err != nil && !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("failed to create Application: %w", err)
	}

	return nil
}
