package analysis

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/tdnguyen/jira-planner/internal/models"
)

// angularBundle is the Angular frontend target. Implementation work on this
// stack carries a 10% surcharge over the backend baseline.
func angularBundle() *TemplateBundle {
	return &TemplateBundle{
		Tag:           "angular",
		Display:       "ANGULAR",
		Frontend:      true,
		ImplSurcharge: 1.1,
		Dependencies: []string{
			"@angular/core",
			"@angular/common",
			"@angular/forms",
			"@angular/router",
			"rxjs",
		},
		SetupSteps: []string{
			"Add dependencies to package.json",
			"Run: npm install",
			"Import component in the feature module",
			"Add route configuration if needed",
			"Run: ng serve",
		},
		Layers: []LayerTemplate{
			{Layer: "Component", Extension: "ts", Description: "Angular component class", Render: angularComponent},
			{Layer: "Template", Extension: "html", Description: "Component template", Render: angularTemplate},
			{Layer: "Styles", Extension: "scss", Description: "Component styles", Render: angularStyles},
			{Layer: "Service", Extension: "ts", Description: "HTTP data service", Render: angularService},
			{Layer: "Model", Extension: "ts", Description: "Typed data model", Render: angularModel},
		},
		Sections: angularSections,
		Notes:    angularNotes,
	}
}

func angularSections(ctx GenContext) []models.PseudoCodeSection {
	kw := ctx.Keywords
	isComplex := ctx.Level == models.ComplexityComplex
	label := strings.TrimSpace(ctx.Issue.Title)
	if label == "" {
		label = ctx.Name
	}

	validation := []string{
		"BEGIN",
		"  BUILD reactive FormGroup with validators",
		"  CHECK form validity on submit",
	}
	if kw.Validation {
		validation = append(validation, "  APPLY custom validators for business rules")
	}
	validation = append(validation,
		"  IF form invalid THEN",
		"    MARK all controls as touched",
		"    DISPLAY field-level validation messages",
		"    ABORT submission",
		"  END IF",
	)

	main := []string{
		fmt.Sprintf("  IMPLEMENT: %s", label),
		"  SHOW loading indicator",
		"  CALL service method with form data",
	}
	if kw.API {
		main = append(main, "  SEND HTTP request to backend API")
	}
	main = append(main, "  SUBSCRIBE to the response observable")
	if isComplex {
		main = append(main, "  COMBINE multiple data streams with RxJS operators")
	}

	success := []string{
		"  HIDE loading indicator",
		"  UPDATE component state with response data",
		"  NOTIFY user of successful operation",
	}
	if kw.CRUD {
		success = append(success, "  REFRESH list or NAVIGATE to detail view")
	}

	errHandling := []string{
		"  CATCH errors in the subscribe error callback",
	}
	if kw.Auth || isComplex {
		errHandling = append(errHandling,
			"  IF status is 401 or 403 THEN",
			"    REDIRECT to login or show access denied",
			"  END IF",
		)
	}
	if isComplex {
		errHandling = append(errHandling,
			"  IF status is 500 THEN",
			"    OFFER retry action to the user",
			"  END IF",
		)
	}
	errHandling = append(errHandling,
		"  DISPLAY user-friendly error message",
		"  HIDE loading indicator",
		"  LOG error to console or monitoring service",
	)

	cleanup := []string{
		"  UNSUBSCRIBE from observables in ngOnDestroy",
		"  RELEASE component references",
		"END",
	}

	return []models.PseudoCodeSection{
		{Title: SectionInputValidation, Steps: validation},
		{Title: SectionMainLogic, Steps: main},
		{Title: SectionSuccess, Steps: success},
		{Title: SectionErrorHandling, Steps: errHandling},
		{Title: SectionCleanup, Steps: cleanup},
	}
}

func angularNotes(ctx GenContext) []string {
	notes := []string{
		fmt.Sprintf("Complexity Level: %s", ctx.Level),
		"Target Language: ANGULAR",
	}
	if ctx.Level == models.ComplexityComplex {
		notes = append(notes,
			"Consider splitting into smaller presentational components",
			"Add unit tests for component and service",
		)
	}
	notes = append(notes,
		"Follow the Angular style guide",
		"Use reactive forms for user input",
		"Use RxJS operators for async data flows",
		"Implement OnDestroy for subscription cleanup",
	)
	return notes
}

// pascalToKebab converts an identifier like WrapperApiDigitcare to
// wrapper-api-digitcare for use in selectors and URL paths.
func pascalToKebab(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func angularComponent(name string) string {
	return fmt.Sprintf(`import { Component, OnDestroy, OnInit } from '@angular/core';
import { FormBuilder, FormGroup, Validators } from '@angular/forms';
import { Subject } from 'rxjs';
import { takeUntil } from 'rxjs/operators';

import { %[1]sService } from './%[1]sService';
import { %[1]sModel } from './%[1]sModel';

@Component({
  selector: 'app-%[2]s',
  templateUrl: './%[1]sTemplate.html',
  styleUrls: ['./%[1]sStyles.scss'],
})
export class %[1]sComponent implements OnInit, OnDestroy {
  form: FormGroup;
  items: %[1]sModel[] = [];
  loading = false;
  errorMessage = '';

  private readonly destroy$ = new Subject<void>();

  constructor(
    private readonly fb: FormBuilder,
    private readonly service: %[1]sService,
  ) {
    this.form = this.fb.group({
      name: ['', [Validators.required, Validators.maxLength(255)]],
      description: [''],
    });
  }

  ngOnInit(): void {
    this.load();
  }

  ngOnDestroy(): void {
    this.destroy$.next();
    this.destroy$.complete();
  }

  load(): void {
    this.loading = true;
    this.service
      .getAll()
      .pipe(takeUntil(this.destroy$))
      .subscribe({
        next: (items) => {
          this.items = items;
          this.loading = false;
        },
        error: (err) => this.handleError(err),
      });
  }

  onSubmit(): void {
    if (this.form.invalid) {
      this.form.markAllAsTouched();
      return;
    }
    this.loading = true;
    this.service
      .create(this.form.value)
      .pipe(takeUntil(this.destroy$))
      .subscribe({
        next: () => {
          this.form.reset();
          this.load();
        },
        error: (err) => this.handleError(err),
      });
  }

  private handleError(err: unknown): void {
    this.loading = false;
    this.errorMessage = 'Something went wrong. Please try again.';
    console.error(err);
  }
}
`, name, pascalToKebab(name))
}

func angularTemplate(name string) string {
	return fmt.Sprintf(`<div class="%[2]s">
  <h2>%[1]s</h2>

  <form [formGroup]="form" (ngSubmit)="onSubmit()">
    <label for="name">Name</label>
    <input id="name" type="text" formControlName="name" />
    <div class="field-error" *ngIf="form.get('name')?.touched && form.get('name')?.invalid">
      Name is required.
    </div>

    <label for="description">Description</label>
    <textarea id="description" formControlName="description"></textarea>

    <button type="submit" [disabled]="loading">Save</button>
  </form>

  <div class="spinner" *ngIf="loading">Loading...</div>
  <div class="error" *ngIf="errorMessage">{{ errorMessage }}</div>

  <ul class="item-list">
    <li *ngFor="let item of items">
      <span class="item-name">{{ item.name }}</span>
      <span class="item-description">{{ item.description }}</span>
    </li>
  </ul>
</div>
`, name, pascalToKebab(name))
}

func angularStyles(name string) string {
	return fmt.Sprintf(`.%[1]s {
  display: flex;
  flex-direction: column;
  gap: 1rem;
  padding: 1rem;

  form {
    display: flex;
    flex-direction: column;
    gap: 0.5rem;
    max-width: 32rem;
  }

  .field-error,
  .error {
    color: #c0392b;
    font-size: 0.875rem;
  }

  .spinner {
    color: #7f8c8d;
  }

  .item-list {
    list-style: none;
    margin: 0;
    padding: 0;

    li {
      display: flex;
      gap: 0.5rem;
      padding: 0.25rem 0;
      border-bottom: 1px solid #ecf0f1;
    }
  }
}
`, pascalToKebab(name))
}

func angularService(name string) string {
	return fmt.Sprintf(`import { HttpClient } from '@angular/common/http';
import { Injectable } from '@angular/core';
import { Observable } from 'rxjs';

import { %[1]sModel } from './%[1]sModel';

@Injectable({ providedIn: 'root' })
export class %[1]sService {
  private readonly baseUrl = '/api/%[2]s';

  constructor(private readonly http: HttpClient) {}

  getAll(): Observable<%[1]sModel[]> {
    return this.http.get<%[1]sModel[]>(this.baseUrl);
  }

  getById(id: number): Observable<%[1]sModel> {
    return this.http.get<%[1]sModel>(this.baseUrl + '/' + id);
  }

  create(payload: Partial<%[1]sModel>): Observable<%[1]sModel> {
    return this.http.post<%[1]sModel>(this.baseUrl, payload);
  }

  update(id: number, payload: Partial<%[1]sModel>): Observable<%[1]sModel> {
    return this.http.put<%[1]sModel>(this.baseUrl + '/' + id, payload);
  }

  delete(id: number): Observable<void> {
    return this.http.delete<void>(this.baseUrl + '/' + id);
  }
}
`, name, pascalToKebab(name))
}

func angularModel(name string) string {
	return fmt.Sprintf(`export interface %[1]sModel {
  id: number;
  name: string;
  description: string;
  active: boolean;
  createdAt?: string;
}
`, name)
}
