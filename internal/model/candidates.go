package model

// DefaultCandidates returns the candidate roster in evaluation order,
// together with each model's hyperparameter grid. The seed flows into every
// stochastic estimator so repeated training runs produce identical models.
func DefaultCandidates(seed int64) []Candidate {
	return []Candidate{
		{
			Name: "Random Forest",
			New:  seeded(NewRandomForest, seed),
			Grid: Grid{
				"class_weight":      {"balanced"},
				"n_estimators":      {20, 50, 100},
				"max_depth":         {5, 8, 10},
				"min_samples_split": {2, 5, 10},
			},
		},
		{
			Name: "Decision Tree",
			New:  seeded(NewDecisionTree, seed),
			Grid: Grid{
				"class_weight":      {"balanced"},
				"criterion":         {"gini", "entropy"},
				"max_depth":         {3, 4, 5, 6},
				"min_samples_split": {2, 3, 4, 5},
				"min_samples_leaf":  {1, 2, 3},
			},
		},
		{
			Name: "Logistic Regression",
			New:  NewLogisticRegression,
			Grid: Grid{
				"class_weight": {"balanced"},
				"penalty":      {"l1", "l2"},
				"C":            {0.001, 0.01, 0.1, 1.0, 10.0, 100.0},
			},
		},
		{
			Name: "Gaussian Naive Bayes",
			New:  NewGaussianNB,
			Grid: Grid{
				"var_smoothing": {1e-9, 1e-8, 1e-7},
			},
		},
	}
}

// seeded injects the run seed into every configuration built by the factory.
func seeded(f Factory, seed int64) Factory {
	return func(p Params) (Classifier, error) {
		withSeed := make(Params, len(p)+1)
		for k, v := range p {
			withSeed[k] = v
		}
		withSeed["seed"] = int(seed)
		return f(withSeed)
	}
}
